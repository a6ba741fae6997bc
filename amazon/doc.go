/*
Package amazon provides a connection to AWS through the AWS-SDK.

This package primarily warps the AWS-SDK to provide an easy instantiation
of an AWS session which can be further used to access AWS resources.  The full
usage of the returned session is explained further through the AWS API:
https://docs.aws.amazon.com/sdk-for-go/api/aws.

*/
package amazon
