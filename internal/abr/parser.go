// =============================================================================
// ABN Bulk Lookup - ABR XML Response Parser
// =============================================================================
//
// This module maps one ABR search response onto a flat types.Record.
//
// RESPONSE STRUCTURE (abridged):
//
//   <ABRPayloadSearchResults xmlns="http://abr.business.gov.au/ABRXMLSearch/">
//     <response>
//       <dateTimeRetrieved>...</dateTimeRetrieved>
//       <businessEntity201408>
//         <recordLastUpdatedDate/>
//         <ABN><identifierValue/></ABN>
//         <entityStatus><entityStatusCode/><effectiveFrom/></entityStatus>
//         <ASICNumber/>
//         <entityType><entityDescription/></entityType>
//         <goodsAndServicesTax><effectiveFrom/></goodsAndServicesTax>
//         <dgrEndorsement>...</dgrEndorsement>
//         <mainName><organisationName/></mainName>
//         <mainBusinessPhysicalAddress><stateCode/><postcode/></mainBusinessPhysicalAddress>
//         <charityType>...</charityType>                          (0..n)
//         <taxConcessionCharityEndorsement>...</...>              (0..n)
//         <ACNCRegistration>...</ACNCRegistration>
//       </businessEntity201408>
//     </response>
//   </ABRPayloadSearchResults>
//
// With includeHistoricalDetails=Y most blocks can repeat. Fixed-path
// fields take the first occurrence; charityType takes the last one.
//
// =============================================================================

package abr

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/serrors"
)

// Namespace is the XML namespace of every element in a search response.
const Namespace = "http://abr.business.gov.au/ABRXMLSearch/"

// CharitySearchURL is the ACNC register search for an ABN.
const CharitySearchURL = "https://www.acnc.gov.au/charity/charities?search="

// Tax concession endorsement types the record knows about.
const (
	EndorsementGSTConcession      = "GST Concession"
	EndorsementIncomeTaxExemption = "Income Tax Exemption"
	EndorsementFBTExemption       = "FBT Exemption"
	EndorsementFBTRebate          = "FBT Rebate"
)

// =============================================================================
// RESPONSE SCHEMA
// =============================================================================
// Leaves are *string so an absent element (nil) can be told apart from an
// empty one ("").

type payload struct {
	XMLName  xml.Name `xml:"ABRPayloadSearchResults"`
	Response response `xml:"response"`
}

// The entity must be in Namespace; anywhere else it reads as absent.
type response struct {
	DateTimeRetrieved *string         `xml:"dateTimeRetrieved"`
	Exception         *exception      `xml:"exception"`
	BusinessEntity    *businessEntity `xml:"http://abr.business.gov.au/ABRXMLSearch/ businessEntity201408"`
}

type exception struct {
	Description string `xml:"exceptionDescription"`
	Code        string `xml:"exceptionCode"`
}

type businessEntity struct {
	RecordLastUpdatedDate *string            `xml:"recordLastUpdatedDate"`
	ABN                   []identifier       `xml:"ABN"`
	EntityStatus          []entityStatus     `xml:"entityStatus"`
	ASICNumber            *string            `xml:"ASICNumber"`
	EntityType            []entityType       `xml:"entityType"`
	GoodsAndServicesTax   []period           `xml:"goodsAndServicesTax"`
	DGREndorsement        []dgrEndorsement   `xml:"dgrEndorsement"`
	MainName              []mainName         `xml:"mainName"`
	PhysicalAddress       []physicalAddress  `xml:"mainBusinessPhysicalAddress"`
	CharityTypes          []charityType      `xml:"charityType"`
	Endorsements          []endorsement      `xml:"taxConcessionCharityEndorsement"`
	ACNCRegistration      []acncRegistration `xml:"ACNCRegistration"`
}

type identifier struct {
	IdentifierValue *string `xml:"identifierValue"`
}

type entityStatus struct {
	Code          *string `xml:"entityStatusCode"`
	EffectiveFrom *string `xml:"effectiveFrom"`
}

type entityType struct {
	Description *string `xml:"entityDescription"`
}

type period struct {
	EffectiveFrom *string `xml:"effectiveFrom"`
	EffectiveTo   *string `xml:"effectiveTo"`
}

type dgrEndorsement struct {
	EndorsedFrom      *string `xml:"endorsedFrom"`
	EndorsedTo        *string `xml:"endorsedTo"`
	EntityEndorsement *string `xml:"entityEndorsement"`
	ItemNumber        *string `xml:"itemNumber"`
}

type mainName struct {
	OrganisationName *string `xml:"organisationName"`
}

type physicalAddress struct {
	StateCode *string `xml:"stateCode"`
	Postcode  *string `xml:"postcode"`
}

type charityType struct {
	Description *string `xml:"charityTypeDescription"`
	period
}

type endorsement struct {
	Type *string `xml:"endorsementType"`
	period
}

type acncRegistration struct {
	Status *string `xml:"status"`
	period
}

// =============================================================================
// PARSE
// =============================================================================

// Parse maps a search response onto a Record.
//
// RETURNS:
//   - A complete Record, or nil with one of:
//     ErrNoData    when data is empty,
//     ErrMalformed when data is not a decodable response,
//     ErrNotFound  when the response has no business entity.
//
// A Record is never returned partially filled: any decoding error
// discards everything extracted so far.
func Parse(data []byte) (*types.Record, error) {
	if len(data) == 0 {
		return nil, serrors.With(serrors.ErrNoData, "no response data to parse")
	}

	var p payload
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&p); err != nil {
		return nil, serrors.Wrap(serrors.ErrMalformed, err, "could not decode search response")
	}

	be := p.Response.BusinessEntity
	if be == nil {
		msg := "no business entity in search response"
		if ex := p.Response.Exception; ex != nil && strings.TrimSpace(ex.Description) != "" {
			msg = fmt.Sprintf("%s: %s", msg, strings.TrimSpace(ex.Description))
		}
		return nil, serrors.With(serrors.ErrNotFound, "%s", msg)
	}

	rec := types.NewRecord()

	if id := first(be.ABN); id != nil {
		rec.ABN = text(id.IdentifierValue)
		rec.IdentifierValue = text(id.IdentifierValue)
	}
	if n := first(be.MainName); n != nil {
		rec.OrganisationName = text(n.OrganisationName)
	}
	if s := first(be.EntityStatus); s != nil {
		rec.EntityStatus = text(s.Code)
		rec.EffectiveFrom = text(s.EffectiveFrom)
	}
	if a := first(be.PhysicalAddress); a != nil {
		rec.State = text(a.StateCode)
		rec.Postcode = text(a.Postcode)
	}
	if g := first(be.GoodsAndServicesTax); g != nil {
		rec.GSTEffectiveFrom = text(g.EffectiveFrom)
	}
	if et := first(be.EntityType); et != nil {
		rec.EntityType = text(et.Description)
	}
	rec.RecordLastUpdated = text(be.RecordLastUpdatedDate)
	rec.ASICNumber = text(be.ASICNumber)
	rec.DateRetrieved = text(p.Response.DateTimeRetrieved)

	applyDGR(rec, first(be.DGREndorsement))
	applyCharityTypes(rec, be.CharityTypes)
	applyEndorsements(rec, be.Endorsements)
	applyACNC(rec, first(be.ACNCRegistration))

	return rec, nil
}

// applyDGR copies the DGR endorsement. DGRFunds has no source element and
// keeps the sentinel.
func applyDGR(rec *types.Record, dgr *dgrEndorsement) {
	if dgr == nil {
		return
	}
	rec.DGREndorsement = text(dgr.EntityEndorsement)
	rec.DGRStartDate = text(dgr.EndorsedFrom)
	rec.DGREndDate = text(dgr.EndorsedTo)
	rec.DGRItemNumber = text(dgr.ItemNumber)
}

// applyCharityTypes keeps only the last charity type entry.
func applyCharityTypes(rec *types.Record, entries []charityType) {
	for _, ct := range entries {
		rec.CharityType = text(ct.Description)
		rec.CharityTypeEffectiveFrom = text(ct.EffectiveFrom)
		rec.CharityTypeEffectiveTo = text(ct.EffectiveTo)
		rec.CharityURL = CharitySearchURL + rec.ABN
	}
}

// applyEndorsements sets the concession/exemption fields. Unrecognised
// endorsement types are ignored.
func applyEndorsements(rec *types.Record, entries []endorsement) {
	for _, e := range entries {
		value := fmt.Sprintf("Yes (From: %s, To: %s)", text(e.EffectiveFrom), text(e.EffectiveTo))

		switch text(e.Type) {
		case EndorsementGSTConcession:
			rec.GSTConcession = value
		case EndorsementIncomeTaxExemption:
			rec.IncomeTaxExemption = value
		case EndorsementFBTExemption:
			rec.FBTExemption = value
		case EndorsementFBTRebate:
			rec.FBTRebate = value
		}
	}
}

func applyACNC(rec *types.Record, reg *acncRegistration) {
	if reg == nil {
		return
	}
	rec.ACNCStatus = text(reg.Status)
	rec.ACNCEffectiveFrom = text(reg.EffectiveFrom)
	rec.ACNCEffectiveTo = text(reg.EffectiveTo)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// text returns the trimmed element text, or the sentinel when the element
// was absent.
func text(v *string) string {
	if v == nil {
		return types.NotAvailable
	}
	return strings.TrimSpace(*v)
}

func first[T any](items []T) *T {
	if len(items) == 0 {
		return nil
	}
	return &items[0]
}
