package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordSettlement(t *testing.T) {
	before := testutil.ToFloat64(settlementTotal.WithLabelValues("DUEL", "COMPLETED"))
	RecordSettlement("DUEL", "COMPLETED")
	assert.Equal(t, before+1, testutil.ToFloat64(settlementTotal.WithLabelValues("DUEL", "COMPLETED")))
}

func TestRecordDeposit_SplitsDuplicates(t *testing.T) {
	credited := testutil.ToFloat64(depositTotal.WithLabelValues("credited"))
	dup := testutil.ToFloat64(depositTotal.WithLabelValues("duplicate"))

	RecordDeposit(false)
	RecordDeposit(true)
	RecordDeposit(true)

	assert.Equal(t, credited+1, testutil.ToFloat64(depositTotal.WithLabelValues("credited")))
	assert.Equal(t, dup+2, testutil.ToFloat64(depositTotal.WithLabelValues("duplicate")))
}

func TestSetQueueDepth(t *testing.T) {
	SetQueueDepth("DUEL:1-10", 3)
	assert.Equal(t, 3.0, testutil.ToFloat64(queueDepth.WithLabelValues("DUEL:1-10")))
	SetQueueDepth("DUEL:1-10", 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(queueDepth.WithLabelValues("DUEL:1-10")))
}

func TestCountersAccumulate(t *testing.T) {
	sweep := testutil.ToFloat64(sweeperCancelled)
	RecordSweeperCancelled(4)
	assert.Equal(t, sweep+4, testutil.ToFloat64(sweeperCancelled))

	rej := testutil.ToFloat64(velocityRejected.WithLabelValues("withdrawal"))
	RecordVelocityRejection("withdrawal")
	assert.Equal(t, rej+1, testutil.ToFloat64(velocityRejected.WithLabelValues("withdrawal")))

	wd := testutil.ToFloat64(withdrawalTotal.WithLabelValues("refunded"))
	RecordWithdrawal("refunded")
	assert.Equal(t, wd+1, testutil.ToFloat64(withdrawalTotal.WithLabelValues("refunded")))

	reqs := testutil.ToFloat64(httpReqTotal.WithLabelValues("/health", "GET", "200"))
	RecordHTTP("/health", "GET", 200, time.Now())
	assert.Equal(t, reqs+1, testutil.ToFloat64(httpReqTotal.WithLabelValues("/health", "GET", "200")))
}
