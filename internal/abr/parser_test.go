package abr_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/InfinityHack3r/abnBulkLookup/internal/abr"
	"github.com/InfinityHack3r/abnBulkLookup/internal/types"
	"github.com/InfinityHack3r/abnBulkLookup/pkg/serrors"
)

// envelope wraps a businessEntity201408 body in a full search response.
func envelope(entity string) []byte {
	return []byte(`<?xml version="1.0" encoding="utf-8"?>
<ABRPayloadSearchResults xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance" xmlns="` + abr.Namespace + `">
  <request>
    <identifierSearchRequest>
      <identifierType>ABN</identifierType>
      <identifierValue>51824753556</identifierValue>
    </identifierSearchRequest>
  </request>
  <response>
    <usageStatement>The Registrar of the ABR monitors the quality of the information.</usageStatement>
    <dateRegisterLastUpdated>2024-05-01</dateRegisterLastUpdated>
    <dateTimeRetrieved>2024-05-01T10:11:12.123+10:00</dateTimeRetrieved>
    ` + entity + `
  </response>
</ABRPayloadSearchResults>`)
}

const fullEntity = `<businessEntity201408>
      <recordLastUpdatedDate>2023-11-20</recordLastUpdatedDate>
      <ABN>
        <identifierValue> 51824753556 </identifierValue>
        <isCurrentIndicator>Y</isCurrentIndicator>
        <replacedFrom>0001-01-01</replacedFrom>
      </ABN>
      <entityStatus>
        <entityStatusCode>Active</entityStatusCode>
        <effectiveFrom>1999-11-01</effectiveFrom>
        <effectiveTo>0001-01-01</effectiveTo>
      </entityStatus>
      <entityStatus>
        <entityStatusCode>Cancelled</entityStatusCode>
        <effectiveFrom>1990-01-01</effectiveFrom>
      </entityStatus>
      <ASICNumber>000000019</ASICNumber>
      <entityType>
        <entityTypeCode>PUB</entityTypeCode>
        <entityDescription>Australian Public Company</entityDescription>
      </entityType>
      <goodsAndServicesTax>
        <effectiveFrom>2000-07-01</effectiveFrom>
        <effectiveTo>0001-01-01</effectiveTo>
      </goodsAndServicesTax>
      <dgrEndorsement>
        <endorsedFrom>2005-01-01</endorsedFrom>
        <endorsedTo>0001-01-01</endorsedTo>
        <entityEndorsement>Deductible Gift Recipient</entityEndorsement>
        <itemNumber>1</itemNumber>
      </dgrEndorsement>
      <mainName>
        <organisationName>EXAMPLE CHARITY LIMITED</organisationName>
        <effectiveFrom>2001-01-01</effectiveFrom>
      </mainName>
      <mainBusinessPhysicalAddress>
        <stateCode>NSW</stateCode>
        <postcode>2000</postcode>
        <effectiveFrom>2001-01-01</effectiveFrom>
      </mainBusinessPhysicalAddress>
      <charityType>
        <charityTypeDescription>Public Benevolent Institution</charityTypeDescription>
        <effectiveFrom>2000-07-01</effectiveFrom>
        <effectiveTo>2010-06-30</effectiveTo>
      </charityType>
      <charityType>
        <charityTypeDescription>Health Promotion Charity</charityTypeDescription>
        <effectiveFrom>2010-07-01</effectiveFrom>
        <effectiveTo>0001-01-01</effectiveTo>
      </charityType>
      <taxConcessionCharityEndorsement>
        <endorsementType>GST Concession</endorsementType>
        <effectiveFrom>2001-01-01</effectiveFrom>
        <effectiveTo>N/A</effectiveTo>
      </taxConcessionCharityEndorsement>
      <taxConcessionCharityEndorsement>
        <endorsementType>Income Tax Exemption</endorsementType>
        <effectiveFrom>2000-07-01</effectiveFrom>
        <effectiveTo>0001-01-01</effectiveTo>
      </taxConcessionCharityEndorsement>
      <taxConcessionCharityEndorsement>
        <endorsementType>FBT Rebate</endorsementType>
        <effectiveFrom>2002-02-02</effectiveFrom>
      </taxConcessionCharityEndorsement>
      <taxConcessionCharityEndorsement>
        <endorsementType>Land Tax Exemption</endorsementType>
        <effectiveFrom>2003-03-03</effectiveFrom>
        <effectiveTo>0001-01-01</effectiveTo>
      </taxConcessionCharityEndorsement>
      <ACNCRegistration>
        <status>Registered</status>
        <effectiveFrom>2012-12-03</effectiveFrom>
        <effectiveTo>0001-01-01</effectiveTo>
      </ACNCRegistration>
    </businessEntity201408>`

func TestParse_NoData(t *testing.T) {
	rec, err := abr.Parse(nil)
	require.Nil(t, rec)
	require.ErrorIs(t, err, serrors.ErrNoData)

	rec, err = abr.Parse([]byte{})
	require.Nil(t, rec)
	require.ErrorIs(t, err, serrors.ErrNoData)
}

func TestParse_Malformed(t *testing.T) {
	rec, err := abr.Parse([]byte(`<ABRPayloadSearchResults><response><businessEntity201408>`))
	require.Nil(t, rec)
	require.ErrorIs(t, err, serrors.ErrMalformed)
}

func TestParse_NoBusinessEntity(t *testing.T) {
	body := envelope(`<exception>
      <exceptionDescription>Search text is not a valid ABN or ACN</exceptionDescription>
      <exceptionCode>WEBSERVICES</exceptionCode>
    </exception>`)

	rec, err := abr.Parse(body)
	require.Nil(t, rec)
	require.ErrorIs(t, err, serrors.ErrNotFound)
	require.Contains(t, err.Error(), "Search text is not a valid ABN or ACN")
}

func TestParse_FullEntity(t *testing.T) {
	rec, err := abr.Parse(envelope(fullEntity))
	require.NoError(t, err)
	require.NotNil(t, rec)

	require.Equal(t, "51824753556", rec.ABN)
	require.Equal(t, "51824753556", rec.IdentifierValue)
	require.Equal(t, "EXAMPLE CHARITY LIMITED", rec.OrganisationName)
	require.Equal(t, "Active", rec.EntityStatus, "first entityStatus wins")
	require.Equal(t, "1999-11-01", rec.EffectiveFrom)
	require.Equal(t, "NSW", rec.State)
	require.Equal(t, "2000", rec.Postcode)
	require.Equal(t, "000000019", rec.ASICNumber)
	require.Equal(t, "Australian Public Company", rec.EntityType)
	require.Equal(t, "2000-07-01", rec.GSTEffectiveFrom)
	require.Equal(t, "2023-11-20", rec.RecordLastUpdated)
	require.Equal(t, "2024-05-01T10:11:12.123+10:00", rec.DateRetrieved)

	require.Equal(t, "Deductible Gift Recipient", rec.DGREndorsement)
	require.Equal(t, "2005-01-01", rec.DGRStartDate)
	require.Equal(t, "0001-01-01", rec.DGREndDate)
	require.Equal(t, "1", rec.DGRItemNumber)
	require.Equal(t, types.NotAvailable, rec.DGRFunds)

	require.Equal(t, "Yes (From: 2001-01-01, To: N/A)", rec.GSTConcession)
	require.Equal(t, "Yes (From: 2000-07-01, To: 0001-01-01)", rec.IncomeTaxExemption)
	require.Equal(t, "Yes (From: 2002-02-02, To: N/A)", rec.FBTRebate)
	require.Equal(t, types.NotAvailable, rec.FBTExemption)
	require.Equal(t, types.NotAvailable, rec.EndorsementDate)

	require.Equal(t, "Registered", rec.ACNCStatus)
	require.Equal(t, "2012-12-03", rec.ACNCEffectiveFrom)
	require.Equal(t, "0001-01-01", rec.ACNCEffectiveTo)
}

func TestParse_CharityTypeLastEntryWins(t *testing.T) {
	rec, err := abr.Parse(envelope(fullEntity))
	require.NoError(t, err)

	require.Equal(t, "Health Promotion Charity", rec.CharityType)
	require.Equal(t, "2010-07-01", rec.CharityTypeEffectiveFrom)
	require.Equal(t, "0001-01-01", rec.CharityTypeEffectiveTo)
	require.Equal(t, "https://www.acnc.gov.au/charity/charities?search=51824753556", rec.CharityURL)
}

func TestParse_MinimalEntityDefaultsToSentinel(t *testing.T) {
	rec, err := abr.Parse(envelope(`<businessEntity201408>
      <ABN><identifierValue>11000000000</identifierValue></ABN>
      <ASICNumber></ASICNumber>
    </businessEntity201408>`))
	require.NoError(t, err)

	require.Equal(t, "11000000000", rec.ABN)
	require.Equal(t, "", rec.ASICNumber, "present but empty element keeps empty text")
	require.Equal(t, types.NotAvailable, rec.OrganisationName)
	require.Equal(t, types.NotAvailable, rec.State)

	for _, v := range []string{rec.DGREndorsement, rec.DGRStartDate, rec.DGREndDate, rec.DGRItemNumber, rec.DGRFunds} {
		require.Equal(t, types.NotAvailable, v)
	}
	for _, v := range []string{rec.CharityType, rec.CharityURL, rec.CharityTypeEffectiveFrom, rec.CharityTypeEffectiveTo} {
		require.Equal(t, types.NotAvailable, v)
	}
	for _, v := range []string{rec.ACNCStatus, rec.ACNCEffectiveFrom, rec.ACNCEffectiveTo} {
		require.Equal(t, types.NotAvailable, v)
	}
	require.Equal(t, types.NotAvailable, rec.GSTConcession)
}

func TestParse_EntityOutsideNamespaceIsNotFound(t *testing.T) {
	for name, body := range map[string]string{
		"no namespace": `<ABRPayloadSearchResults><response>
      <businessEntity201408><ABN><identifierValue>22000000000</identifierValue></ABN></businessEntity201408>
    </response></ABRPayloadSearchResults>`,
		"other namespace": `<ABRPayloadSearchResults xmlns="urn:example:other"><response>
      <businessEntity201408><ABN><identifierValue>22000000000</identifierValue></ABN></businessEntity201408>
    </response></ABRPayloadSearchResults>`,
	} {
		t.Run(name, func(t *testing.T) {
			rec, err := abr.Parse([]byte(body))
			require.Nil(t, rec)
			require.ErrorIs(t, err, serrors.ErrNotFound)
		})
	}
}
