/*
Package client implements common operations to build applications against a
running attendance server. These focus on the daily employee flows and the
admin review flows behind them.

Below briefly illustrates a simple cycle of creating a client and using it to
perform a few operations.  The first step is to create a new client.

  var conf = Config{
    Remote: "http://localhost:4430/attendance",
  }

  client, err := NewClient(conf)
  // err handling

A session must be opened before anything else. The client holds on to the
returned token and presents it on every request that follows.

  who, err := client.Login("EMP001", "ChangeMe1234")

The signed in employee can then work through a day.

  stamped, err := client.ClockIn()

  draw, err := client.UseInventory(protocol.UseInventoryRequest{
    Item:     "Coffee Beans 1kg",
    Quantity: 2,
  })

A clock action refused for falling outside its window comes back as an
ApprovalRequiredError, and the exception flow takes over from there. The
first submission mails a passcode, the second carries it.

  _, err = client.RequestOvertime(protocol.ExceptionRequest{})
  // read the passcode from email
  queued, err := client.RequestOvertime(protocol.ExceptionRequest{OTP: code})

An admin session reviews what employees queued.

  pending, err := admin.PendingApprovals(protocol.PagingRequest{})
  decided, err := admin.ProcessApproval(pending.Approvals[0].ApprovalID, true)

*/
package client
