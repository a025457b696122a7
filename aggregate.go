package smon

// AggregateStatus computes the overall system status across a set of
// checks: ok iff every check's last outcome is ok. A check that has never
// run yet is treated as ok for aggregation purposes, since it has not yet
// failed.
func AggregateStatus(checks []*Check) Status {
	for _, c := range checks {
		if c.LastOutcome().Status == StatusErr {
			return StatusErr
		}
	}
	return StatusOK
}
