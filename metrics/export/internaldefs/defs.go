package internaldefs

import (
	"github.com/MrEthical07/credstore"
)

// CounterDef names one exported counter.
type CounterDef struct {
	ID   credstore.MetricID
	Name string
	Help string
}

// HistogramDef names one exported latency histogram.
type HistogramDef struct {
	ID   credstore.MetricID
	Name string
	Help string
}

// AuditDroppedName is the counter fed from Store.AuditDropped.
const (
	AuditDroppedName = "credstore_audit_dropped_total"
	AuditDroppedHelp = "Audit events dropped because the dispatcher buffer was full."
)

var CounterDefs = []CounterDef{
	{ID: credstore.MetricRegisterSuccess, Name: "credstore_register_success_total", Help: "Users registered."},
	{ID: credstore.MetricRegisterDuplicate, Name: "credstore_register_duplicate_total", Help: "Registrations rejected because the username exists."},
	{ID: credstore.MetricRegisterFailure, Name: "credstore_register_failure_total", Help: "Registrations that failed on hashing or storage."},
	{ID: credstore.MetricAuthenticateSuccess, Name: "credstore_authenticate_success_total", Help: "Password checks that matched."},
	{ID: credstore.MetricAuthenticateFailure, Name: "credstore_authenticate_failure_total", Help: "Password checks that did not match or errored."},
	{ID: credstore.MetricAuthenticateUnknownUser, Name: "credstore_authenticate_unknown_user_total", Help: "Password checks for unregistered usernames."},
	{ID: credstore.MetricTokenIssued, Name: "credstore_token_issued_total", Help: "Session tokens signed."},
	{ID: credstore.MetricTokenValid, Name: "credstore_token_valid_total", Help: "Session tokens that verified."},
	{ID: credstore.MetricTokenExpired, Name: "credstore_token_expired_total", Help: "Session tokens rejected as expired."},
	{ID: credstore.MetricTokenInvalidSignature, Name: "credstore_token_invalid_signature_total", Help: "Session tokens rejected for signature or algorithm."},
	{ID: credstore.MetricTokenMalformed, Name: "credstore_token_malformed_total", Help: "Session tokens that could not be decoded."},
	{ID: credstore.MetricTokenInvalidClaims, Name: "credstore_token_invalid_claims_total", Help: "Session tokens rejected on claims."},
	{ID: credstore.MetricUserInfoHit, Name: "credstore_user_info_hit_total", Help: "User info lookups that found a user."},
	{ID: credstore.MetricUserInfoMiss, Name: "credstore_user_info_miss_total", Help: "User info lookups for unknown users."},
}

var HistogramDefs = []HistogramDef{
	{ID: credstore.MetricAuthenticateLatency, Name: "credstore_authenticate_latency_seconds", Help: "Authenticate latency."},
	{ID: credstore.MetricVerifyLatency, Name: "credstore_verify_latency_seconds", Help: "Token verification latency."},
}

// HistogramBounds are the upper bounds of the eight store buckets, in seconds.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix is HistogramBounds made safe for instrument names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to eight buckets.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	copy(out[:], raw)
	return out
}

// CumulativeBuckets converts per-bucket counts into running totals.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i, v := range raw {
		running += v
		out[i] = running
	}
	return out
}
