package export

import (
	"strings"

	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
)

// Link targets for the hyperlinked columns.
const (
	ABNHistoryURL = "https://abr.business.gov.au/AbnHistory/View?id="
	ASICSearchURL = "https://connectonline.asic.gov.au/RegistrySearch/faces/landing/panelSearch.jspx?searchType=OrgAndBusNm&searchText="

	// CharityLinkText is shown in place of the full charity search URL.
	CharityLinkText = "Charity URL"

	// RetrievedLayout formats the batch start time for the Date Retrieved column.
	RetrievedLayout = "2006-01-02 15:04:05"
)

// Column describes one column of the details sheet.
type Column struct {
	Header string
	Width  float64
}

// Columns is the fixed layout of the details sheet.
var Columns = []Column{
	{"ABN", 12},
	{"Organisation Name", 32.14},
	{"Entity Type", 28.86},
	{"GST Registration", 15.71},
	{"Status", 10.57},
	{"State", 5.57},
	{"Postcode", 7.86},
	{"ASIC Number", 11.71},
	{"Record Last Updated", 18.57},
	{"GST Effective From", 17},
	{"Effective From", 13.43},
	{"Date Retrieved", 17.86},
	{"DGR Endorsement", 16.71},
	{"DGR Start Date", 13.86},
	{"DGR End Date", 12.43},
	{"DGR Item Number", 16.86},
	{"DGR Funds", 10.14},
	{"Charity Type", 11.86},
	{"Charity URL", 11.29},
	{"Charity Type Effective From", 25.43},
	{"Charity Type Effective To", 22.14},
	{"Endorsement Date", 16.71},
	{"Income Tax Exception", 34},
	{"GST Concession", 34},
	{"FBT Rebate", 12.86},
	{"FBT Exemption", 33.43},
	{"ACNC Registration Status", 23.43},
	{"ACNC Registration Effective From", 31.29},
	{"ACNC Registration Effective To", 28.71},
}

// Column indexes that carry hyperlinks.
const (
	colABN        = 0
	colASIC       = 7
	colCharityURL = 18
)

// Cell is a rendered value, optionally backed by a hyperlink.
type Cell struct {
	Value string
	Link  string
}

// Cells renders rec as one row of the details sheet. retrieved is the
// already-formatted batch start time.
//
// The GST Registration column repeats GST Effective From, and the linked
// columns display the text after the final '=' of their URL.
func Cells(rec *types.Record, retrieved string) []Cell {
	abnLink := ABNHistoryURL + rec.ABN
	asicLink := ASICSearchURL + rec.ASICNumber

	row := []Cell{
		{Value: linkText(abnLink), Link: abnLink},
		{Value: rec.OrganisationName},
		{Value: rec.EntityType},
		{Value: rec.GSTEffectiveFrom},
		{Value: rec.EntityStatus},
		{Value: rec.State},
		{Value: rec.Postcode},
		{Value: linkText(asicLink), Link: asicLink},
		{Value: rec.RecordLastUpdated},
		{Value: rec.GSTEffectiveFrom},
		{Value: rec.EffectiveFrom},
		{Value: retrieved},
		{Value: rec.DGREndorsement},
		{Value: rec.DGRStartDate},
		{Value: rec.DGREndDate},
		{Value: rec.DGRItemNumber},
		{Value: rec.DGRFunds},
		{Value: rec.CharityType},
		{Value: rec.CharityURL},
		{Value: rec.CharityTypeEffectiveFrom},
		{Value: rec.CharityTypeEffectiveTo},
		{Value: rec.EndorsementDate},
		{Value: rec.IncomeTaxExemption},
		{Value: rec.GSTConcession},
		{Value: rec.FBTRebate},
		{Value: rec.FBTExemption},
		{Value: rec.ACNCStatus},
		{Value: rec.ACNCEffectiveFrom},
		{Value: rec.ACNCEffectiveTo},
	}

	if rec.CharityURL != types.NotAvailable {
		row[colCharityURL] = Cell{Value: CharityLinkText, Link: rec.CharityURL}
	}

	return row
}

func linkText(link string) string {
	return link[strings.LastIndex(link, "=")+1:]
}
