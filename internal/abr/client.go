// =============================================================================
// ABN Bulk Lookup - ABR XML Search Client
// =============================================================================
//
// This module issues one HTTP GET per ABN against the ABR XML search
// service and hands back the raw response body.
//
// REQUEST:
//   GET <endpoint>?includeHistoricalDetails=Y
//                 &authenticationGuid=<API key>
//                 &searchString=<ABN with whitespace removed>
//
// FAILURE POLICY:
//   Every fetch is independent and best-effort. There are no retries, no
//   rate limiting and no client timeout. A transport error or a non-200
//   status is returned as serrors.ErrTransport and the caller decides
//   whether to log it and move on (the batch always does).
//
// =============================================================================

package abr

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/InfinityHack3r/abnBulkLookup/pkg/serrors"
)

// DefaultEndpoint is the ABR "search by ABN" method that returns the
// businessEntity201408 schema.
const DefaultEndpoint = "https://abr.business.gov.au/abrxmlsearch/ABRXMLSearch.asmx/SearchByABNv201408"

// Client talks to the ABR XML search service. It is safe for concurrent use.
type Client struct {
	httpClient *http.Client // httpClient performs the GET requests
	endpoint   string       // endpoint is the search method URL without a query
}

// New constructs a Client. A nil httpClient uses http.DefaultClient and an
// empty endpoint uses DefaultEndpoint.
func New(httpClient *http.Client, endpoint string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		httpClient: httpClient,
		endpoint:   endpoint,
	}
}

// NormalizeABN removes every whitespace character from abn, so that
// "51 824 753 556" and "51824753556" query the same entity.
func NormalizeABN(abn string) string {
	return strings.Join(strings.Fields(abn), "")
}

// QueryURL builds the search URL for abn and apiKey.
func (c *Client) QueryURL(abn, apiKey string) string {
	q := url.Values{}
	q.Set("includeHistoricalDetails", "Y")
	q.Set("authenticationGuid", apiKey)
	q.Set("searchString", NormalizeABN(abn))

	return c.endpoint + "?" + q.Encode()
}

// Fetch retrieves the raw XML search result for abn.
//
// PARAMETERS:
//   - ctx: Controls the lifetime of the request.
//   - abn: The ABN as entered; whitespace is removed before querying.
//   - apiKey: The ABR authentication GUID.
//
// RETURNS:
//   - The response body when the service answers 200 OK.
//   - An ErrTransport error otherwise.
func (c *Client) Fetch(ctx context.Context, abn, apiKey string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.QueryURL(abn, apiKey), nil)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not create request for ABN %s", abn)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not fetch ABN %s", abn)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, serrors.With(serrors.ErrTransport, "fetch ABN %s: unexpected status %s", abn, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, serrors.Wrap(serrors.ErrTransport, err, "could not read response for ABN %s", abn)
	}

	return body, nil
}

// String describes the client for log lines.
func (c *Client) String() string {
	return fmt.Sprintf("abr.Client(%s)", c.endpoint)
}
