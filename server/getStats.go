package server

import (
	"context"
	"fmt"
	"net/http"
	"sort"

	metrics "github.com/rcrowley/go-metrics"

	"github.com/bbyours/attendance-server/autoscale"
	"github.com/bbyours/attendance-server/performance"
	"github.com/bbyours/attendance-server/services/audit"
)

func (h AppServer) getStats(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	gem, _ := GEMFromContext(ctx)
	gem.Action = "access"
	gem.Payload.Audit = audit.WithType(gem.Payload.Audit, "EventAccess")
	gem.Payload.Audit = audit.WithAction(gem.Payload.Audit, "ACCESS")

	renderErrorCounters(w)

	verboseParameter := r.URL.Query().Get("verbose")
	verbose := false
	if verboseParameter == "true" {
		verbose = true
	}

	fmt.Fprintf(w, "\nLast Cloudwatch report\n")
	autoscale.CloudWatchDump(w)

	fmt.Fprintf(w, "\nLogins:\n")
	h.Tracker.Reporters[performance.LoginCounter].Q.Dump(w, verbose)

	fmt.Fprintf(w, "\nClock Ins:\n")
	h.Tracker.Reporters[performance.ClockInCounter].Q.Dump(w, verbose)

	fmt.Fprintf(w, "\nClock Outs:\n")
	h.Tracker.Reporters[performance.ClockOutCounter].Q.Dump(w, verbose)

	fmt.Fprintf(w, "\nException Requests:\n")
	h.Tracker.Reporters[performance.ExceptionCounter].Q.Dump(w, verbose)

	fmt.Fprintf(w, "\nApproval Decisions:\n")
	h.Tracker.Reporters[performance.ApprovalCounter].Q.Dump(w, verbose)

	fmt.Fprintf(w, "\nInventory Draws:\n")
	h.Tracker.Reporters[performance.InventoryCounter].Q.Dump(w, verbose)

	fmt.Fprintf(w, "\nPayslip Views:\n")
	h.Tracker.Reporters[performance.PayslipCounter].Q.Dump(w, verbose)

	fmt.Fprintf(w, "\nMessages:\n")
	h.Tracker.Reporters[performance.MessageCounter].Q.Dump(w, verbose)

	fmt.Fprintf(w, "\nDatabase timers:\n")
	renderDatabaseTimers(w)

	h.publishSuccess(gem, w)
	return nil
}

// writeCounters lets us write the counters out to stats
func renderErrorCounters(w http.ResponseWriter) {
	doWriteCounters(w)
}

// Write the counters out.  Make sure we are in the thread of the datastructure when we do this
func doWriteCounters(w http.ResponseWriter) {

	//Count the total number of events per endpoint, and report for each line
	totalQueries := int64(0)
	totalErrors := int64(0)
	var lines = make([]string, 0)

	//We are under the lock, so don't do IO in here yet.
	mutex.Lock()
	for _, v := range counters {
		totalQueries += v
	}
	for k, v := range counters {
		//Unless it's 400 or greater, it's not an error.
		if k.Code >= 400 {
			lines = append(
				lines,
				fmt.Sprintf("%d\t%d\t%s:%d", v, k.Code, k.File, k.Line),
			)
			totalErrors += v
		}
	}
	mutex.Unlock()

	//Do io outside the mutex!
	if len(lines) == 0 {
		fmt.Fprintf(w, "Errors: none\n")
	} else {
		fmt.Fprintf(w, "Errors: %d in %d queries\n", totalErrors, totalQueries)
		fmt.Fprintf(w, "count\tcode\tfile:line\n")
		for i := range lines {
			fmt.Fprintf(w, "%s\n", lines[i])
		}
	}
}

// renderDatabaseTimers snapshots the registry that the database layer feeds
// a timer into for every call it makes.
func renderDatabaseTimers(w http.ResponseWriter) {
	var lines []string
	metrics.DefaultRegistry.Each(func(name string, i interface{}) {
		if t, ok := i.(metrics.Timer); ok {
			snapshot := t.Snapshot()
			lines = append(lines, fmt.Sprintf("%s\t%d\t%.1fms\t%.1fms",
				name,
				snapshot.Count(),
				snapshot.Mean()/1e6,
				snapshot.Percentile(0.95)/1e6,
			))
		}
	})
	if len(lines) == 0 {
		fmt.Fprintf(w, "no timers yet\n")
		return
	}
	sort.Strings(lines)
	fmt.Fprintf(w, "name\tcount\tmean\tp95\n")
	for i := range lines {
		fmt.Fprintf(w, "%s\n", lines[i])
	}
}
