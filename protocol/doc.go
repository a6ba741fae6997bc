/*
Package protocol provides structures which represent operations and returns
from the attendance server.

Basics

Requests that initiate changes are suffixed with *Request. POSTing correctly
formatted objects to the matching route will cause the built action to be
performed; e.g. LoginRequest or UseInventoryRequest. Returned structures
carry the wire names the form UI binds to.
*/
package protocol
