package performance

import (
	"log"
	"math/rand"
	"os"
	"testing"
	"time"
)

var reporters *JobReporters

//A set of response sizes to simulate
var sizes []int64
var jobTypes []ReporterID

func simulate(i int, done chan int) {
	log.Printf("sim start:%d", i)
	//Pick a random job type and size
	n := rand.Int() % len(sizes)
	jt := jobTypes[rand.Int()%len(jobTypes)]

	//Noise between 1.0 and 1.5
	var noise = 1.0 + float32(rand.Int()%500)/1000.0

	time.Sleep(time.Duration(rand.Int()%100) * time.Millisecond)

	//and run for some jittery time proportional to response size
	var bandwidth float32 = 100000.0
	startedAt := reporters.BeginTime(jt)

	transactionTime := noise * float32(sizes[n]) / bandwidth
	//Do the actual sleep
	time.Sleep(time.Duration(transactionTime*1000) * time.Millisecond)
	reporters.EndTime(jt, startedAt, SizeJob(sizes[n]))

	done <- 1
}

func TestSimulation(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping statistics simulation test.")
	}
	//Run a random number of jobs
	total := 100
	done := make(chan int)
	for i := 0; i < total; i++ {
		go simulate(i, done)
	}
	remaining := total
	for remaining > 0 {
		_ = <-done
		remaining--
	}
	reporters.Reporters[PayslipCounter].Q.Dump(os.Stdout, false)
	reporters.Reporters[MessageCounter].Q.Dump(os.Stdout, false)
}

func TestBeginEndTime(t *testing.T) {
	r := NewJobReporters(32)
	defer r.Stop()

	began := r.BeginTime(ClockInCounter)
	time.Sleep(2 * time.Millisecond)
	r.EndTime(ClockInCounter, began, SizeJob(1))

	report := r.Report(ClockInCounter)
	if report.Name != "clockin" {
		t.Errorf("expected clockin reporter, got %s", report.Name)
	}
}

func TestGetRequestByteTotal(t *testing.T) {
	r := NewJobReporters(32)
	defer r.Stop()

	began := r.BeginTime(MessageCounter)
	time.Sleep(2 * time.Millisecond)
	r.EndTime(MessageCounter, began, SizeJob(2048))

	//The ending job is absorbed by a goroutine, so wait for it to land
	deadline := time.Now().Add(2 * time.Second)
	for r.GetRequestByteTotal() < 2048 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if total := r.GetRequestByteTotal(); total < 2048 {
		t.Errorf("expected at least 2048 bytes counted, got %d", total)
	}
}

func init() {
	PanicOnProblem = true
	reporters = NewJobReporters(32)
	//A set of response sizes to simulate
	sizes = []int64{10234, 8214, 90234, 1300000, 28385}
	jobTypes = []ReporterID{
		PayslipCounter,
		MessageCounter,
	}
}
