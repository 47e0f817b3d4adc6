// =============================================================================
// ABN Bulk Lookup - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - abr      (produces Records)
//   - lookup   (produces BatchResults)
//   - export   (consumes BatchResults)
//   - form     (displays Records and Outcomes)
//
// =============================================================================

package types

import (
	"time"
)

// NotAvailable is the sentinel stored in any Record field whose source
// element is absent.
const NotAvailable = "N/A"

// =============================================================================
// RECORD
// =============================================================================

// Record is the flat view of one business entity returned by the ABR
// search service. Every field is always set; absent source values hold
// NotAvailable.
type Record struct {
	// Identity.
	ABN               string
	OrganisationName  string
	EntityType        string
	EntityStatus      string
	EffectiveFrom     string
	State             string
	Postcode          string
	ASICNumber        string
	RecordLastUpdated string
	IdentifierValue   string
	DateRetrieved     string
	GSTEffectiveFrom  string

	// DGR endorsement.
	DGREndorsement string
	DGRStartDate   string
	DGREndDate     string
	DGRItemNumber  string
	DGRFunds       string

	// Charity and ACNC.
	CharityType              string
	CharityURL               string
	CharityTypeEffectiveFrom string
	CharityTypeEffectiveTo   string
	EndorsementDate          string
	IncomeTaxExemption       string
	GSTConcession            string
	FBTRebate                string
	FBTExemption             string
	ACNCStatus               string
	ACNCEffectiveFrom        string
	ACNCEffectiveTo          string
}

// NewRecord returns a Record with every field set to NotAvailable.
func NewRecord() *Record {
	r := &Record{}
	for _, p := range r.fieldPointers() {
		*p.value = NotAvailable
	}
	return r
}

// Field is a named Record value.
type Field struct {
	Name  string
	Value string
}

type fieldPointer struct {
	name  string
	value *string
}

// fieldPointers lists the fields in display order.
func (r *Record) fieldPointers() []fieldPointer {
	return []fieldPointer{
		{"ABN", &r.ABN},
		{"Organisation Name", &r.OrganisationName},
		{"Entity Status", &r.EntityStatus},
		{"Effective From", &r.EffectiveFrom},
		{"State", &r.State},
		{"Postcode", &r.Postcode},
		{"GST Effective From", &r.GSTEffectiveFrom},
		{"Record Last Updated", &r.RecordLastUpdated},
		{"ASIC Number", &r.ASICNumber},
		{"Entity Type", &r.EntityType},
		{"Identifier Value", &r.IdentifierValue},
		{"Date Retrieved", &r.DateRetrieved},
		{"DGR Endorsement", &r.DGREndorsement},
		{"DGR Start Date", &r.DGRStartDate},
		{"DGR End Date", &r.DGREndDate},
		{"DGR Item Number", &r.DGRItemNumber},
		{"DGR Funds", &r.DGRFunds},
		{"Charity Type", &r.CharityType},
		{"Charity URL", &r.CharityURL},
		{"Charity Type Effective From", &r.CharityTypeEffectiveFrom},
		{"Charity Type Effective To", &r.CharityTypeEffectiveTo},
		{"Endorsement Date", &r.EndorsementDate},
		{"Income Tax Exception", &r.IncomeTaxExemption},
		{"GST Concession", &r.GSTConcession},
		{"FBT Rebate", &r.FBTRebate},
		{"FBT Exemption", &r.FBTExemption},
		{"ACNC Registration Status", &r.ACNCStatus},
		{"ACNC Registration Effective From", &r.ACNCEffectiveFrom},
		{"ACNC Registration Effective To", &r.ACNCEffectiveTo},
	}
}

// Fields returns the record's values in display order.
func (r *Record) Fields() []Field {
	ptrs := r.fieldPointers()
	out := make([]Field, len(ptrs))
	for i, p := range ptrs {
		out[i] = Field{Name: p.name, Value: *p.value}
	}
	return out
}

// =============================================================================
// BATCH TYPES
// =============================================================================

// BatchItem pairs one input ABN with its lookup outcome.
// Record is nil exactly when Err is non-nil.
type BatchItem struct {
	// ABN is the ABN as it was supplied, before normalisation.
	ABN string

	Record *Record

	// Err records why the lookup failed.
	Err error
}

// BatchStats summarises a batch run.
type BatchStats struct {
	Total   int
	Found   int
	Missing int
	Elapsed time.Duration
}

// BatchResult is the ordered outcome of a batch run. Items are always in
// the order the ABNs were supplied.
type BatchResult struct {
	// RunID correlates log lines of one run.
	RunID string

	// StartedAt is when the batch began; the export stamps it as the
	// retrieval time.
	StartedAt time.Time

	Items []BatchItem
	Stats BatchStats
}
