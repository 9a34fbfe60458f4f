// Copyright 2025 Markus U. Wahl
// SPDX-License-Identifier: Apache-2.0

package adsapi

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/muw78/amazon-ads-api-connector/adsapi/auth"
	"github.com/muw78/amazon-ads-api-connector/adsapi/reports"
)

// MockHTTPClient is a mock implementation of HTTPClient
type MockHTTPClient struct {
	mock.Mock
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*http.Response), args.Error(1)
}

// httpClientFunc adapts a function to the HTTPClient interface, for tests
// that need a fresh response per call.
type httpClientFunc func(*http.Request) (*http.Response, error)

func (f httpClientFunc) Do(req *http.Request) (*http.Response, error) { return f(req) }

// newTokenServer returns a fake LWA endpoint counting the exchanges it
// serves. Access tokens are numbered so tests can tell exchanges apart.
func newTokenServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()

	exchanges := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		exchanges++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"access_token":"access-token-%d","refresh_token":"rotated-%d","token_type":"bearer","expires_in":3600}`,
			exchanges, exchanges)
	}))
	return server, &exchanges
}

// newTestClient builds a client around the given HTTP client with a
// pre-seeded, non-expired access token, so no exchange happens unless a test
// forces one.
func newTestClient(t *testing.T, httpClient HTTPClient) *Client {
	t.Helper()

	tokens, err := auth.NewTokenSource(auth.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "test-refresh-token",
	})
	require.NoError(t, err)
	tokens.SetToken("test-access-token", time.Now().Add(time.Hour))

	return &Client{
		clientID:        "test-client-id",
		profileID:       "test-profile-id",
		endpoint:        "https://ads.test",
		httpClient:      httpClient,
		tokens:          tokens,
		metrics:         NewMetrics(),
		logger:          log.New(io.Discard, "", 0),
		retryDelay:      time.Millisecond,
		maxResponseSize: DefaultMaxResponseSize,
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     make(http.Header),
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

// readBody decodes a request body and restores it for the actual send.
func readBody(req *http.Request) map[string]any {
	if req.Body == nil {
		return nil
	}
	data, _ := io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewReader(data))
	var body map[string]any
	_ = json.Unmarshal(data, &body)
	return body
}

// =============================================================================
// Client Creation Tests
// =============================================================================

func TestNewClient_Success(t *testing.T) {
	server, exchanges := newTokenServer(t)
	defer server.Close()

	client, err := NewClient(context.Background(), Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "test-refresh-token",
		ProfileID:    "test-profile-id",
		AuthURL:      server.URL,
	})

	require.NoError(t, err)
	assert.NotNil(t, client)
	assert.Equal(t, RegionEU.Endpoint(), client.endpoint)
	assert.False(t, client.tokens.IsExpired())
	assert.Equal(t, 1, *exchanges)
	assert.EqualValues(t, 1, client.TokenRefreshes())
	assert.Equal(t, "rotated-1", client.RefreshToken())
	assert.Nil(t, client.limiter)
}

func TestNewClient_CustomConfig(t *testing.T) {
	server, _ := newTokenServer(t)
	defer server.Close()

	client, err := NewClient(context.Background(), Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "test-refresh-token",
		ProfileID:    "test-profile-id",
		Region:       RegionNA,
		Endpoint:     "https://sandbox.test/",
		AuthURL:      server.URL,
		MaxRetries:   2,
		RateLimit:    5,
	})

	require.NoError(t, err)
	assert.Equal(t, "https://sandbox.test", client.endpoint)
	assert.Equal(t, 2, client.maxRetries)
	assert.NotNil(t, client.limiter)
}

func TestNewClient_MissingCredentials(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "missing client ID",
			cfg:     Config{ClientSecret: "s", RefreshToken: "r", ProfileID: "p"},
			wantErr: "client ID is required",
		},
		{
			name:    "missing client secret",
			cfg:     Config{ClientID: "c", RefreshToken: "r", ProfileID: "p"},
			wantErr: "client secret is required",
		},
		{
			name:    "missing refresh token",
			cfg:     Config{ClientID: "c", ClientSecret: "s", ProfileID: "p"},
			wantErr: "refresh token is required",
		},
		{
			name:    "missing profile ID",
			cfg:     Config{ClientID: "c", ClientSecret: "s", RefreshToken: "r"},
			wantErr: "profile ID is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, client)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNewClient_UnknownRegion(t *testing.T) {
	_, err := NewClient(context.Background(), Config{
		ClientID:     "c",
		ClientSecret: "s",
		RefreshToken: "r",
		ProfileID:    "p",
		Region:       Region("MARS"),
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown region")
}

func TestNewClient_ExchangeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"invalid_grant"}`)
	}))
	defer server.Close()

	client, err := NewClient(context.Background(), Config{
		ClientID:     "c",
		ClientSecret: "s",
		RefreshToken: "expired-refresh-token",
		ProfileID:    "p",
		AuthURL:      server.URL,
	})

	assert.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "initial token exchange failed")
}

// =============================================================================
// Request Plumbing Tests
// =============================================================================

func TestClient_RequestHeaders(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodPost &&
			req.URL.String() == "https://ads.test/sp/campaigns/list" &&
			req.Header.Get("Amazon-Advertising-API-ClientId") == "test-client-id" &&
			req.Header.Get("Amazon-Advertising-API-Scope") == "test-profile-id" &&
			req.Header.Get("Authorization") == "Bearer test-access-token" &&
			req.Header.Get("Accept") == mediaTypeCampaign &&
			req.Header.Get("Content-Type") == mediaTypeCampaign &&
			req.Header.Get("User-Agent") == userAgent
	})).Return(jsonResponse(http.StatusOK, `{"campaigns":[]}`), nil).Once()

	_, err := client.ListCampaigns(context.Background(), nil)

	require.NoError(t, err)
	assert.EqualValues(t, 1, client.Metrics().RequestsTotal)
	mockClient.AssertExpectations(t)
}

func TestClient_UnauthorizedRefreshesOnce(t *testing.T) {
	server, exchanges := newTokenServer(t)
	defer server.Close()

	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	tokens, err := auth.NewTokenSource(auth.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "test-refresh-token",
		TokenURL:     server.URL,
	})
	require.NoError(t, err)
	tokens.SetToken("stale-token", time.Now().Add(time.Hour))
	client.tokens = tokens

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("Authorization") == "Bearer stale-token"
	})).Return(jsonResponse(http.StatusUnauthorized, `{"message":"Unauthorized"}`), nil).Once()

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Header.Get("Authorization") == "Bearer access-token-1"
	})).Return(jsonResponse(http.StatusOK, `{"campaigns":[{"campaignId":"42"}]}`), nil).Once()

	result, err := client.ListCampaigns(context.Background(), nil)

	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "42", result[0]["campaignId"])
	assert.Equal(t, 1, *exchanges)
	mockClient.AssertExpectations(t)
}

func TestClient_SecondUnauthorizedSurfaces(t *testing.T) {
	server, exchanges := newTokenServer(t)
	defer server.Close()

	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	tokens, err := auth.NewTokenSource(auth.Config{
		ClientID:     "test-client-id",
		ClientSecret: "test-client-secret",
		RefreshToken: "test-refresh-token",
		TokenURL:     server.URL,
	})
	require.NoError(t, err)
	tokens.SetToken("revoked-token", time.Now().Add(time.Hour))
	client.tokens = tokens

	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusUnauthorized, `{"message":"Unauthorized"}`), nil).Once()
	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusUnauthorized, `{"message":"Still unauthorized"}`), nil).Once()

	_, err = client.ListCampaigns(context.Background(), nil)

	assert.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, 1, *exchanges)
	mockClient.AssertNumberOfCalls(t, "Do", 2)
}

func TestClient_APIErrorPassesThrough(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	respBody := `{"code":"INVALID_ARGUMENT","details":"campaign budget must be positive"}`
	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusBadRequest, respBody), nil).Once()

	_, err := client.CreateCampaigns(context.Background(), []map[string]any{
		{"name": "Campaign One", "budget": map[string]any{"budget": -1}},
	})

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "INVALID_ARGUMENT", apiErr.Code)
	assert.Equal(t, respBody, apiErr.Body)
	mockClient.AssertNumberOfCalls(t, "Do", 1)
}

func TestClient_NoRetryByDefault(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusTooManyRequests, `{"message":"Too Many Requests"}`), nil).Once()

	_, err := client.ListCampaigns(context.Background(), nil)

	assert.True(t, IsRateLimitError(err))
	assert.EqualValues(t, 0, client.Metrics().RetriesTotal)
	mockClient.AssertNumberOfCalls(t, "Do", 1)
}

func TestClient_OptInRetry(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)
	client.maxRetries = 2

	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusServiceUnavailable, `{"message":"unavailable"}`), nil).Once()
	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusOK, `{"campaigns":[]}`), nil).Once()

	_, err := client.ListCampaigns(context.Background(), nil)

	require.NoError(t, err)
	assert.EqualValues(t, 1, client.Metrics().RetriesTotal)
	mockClient.AssertNumberOfCalls(t, "Do", 2)
}

func TestClient_RetryExhaustionReturnsLastError(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)
	client.maxRetries = 1

	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusBadGateway, `{"message":"bad gateway"}`), nil).Once()
	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusBadGateway, `{"message":"still bad"}`), nil).Once()

	_, err := client.ListCampaigns(context.Background(), nil)

	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "still bad", apiErr.Message)
	mockClient.AssertNumberOfCalls(t, "Do", 2)
}

func TestClient_ResponseSizeLimit(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)
	client.maxResponseSize = 16

	mockClient.On("Do", mock.Anything).
		Return(jsonResponse(http.StatusOK, `{"campaigns":[{"campaignId":"1"}]}`), nil).Once()

	_, err := client.ListCampaigns(context.Background(), nil)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestClient_Pagination(t *testing.T) {
	calls := 0
	client := newTestClient(t, httpClientFunc(func(req *http.Request) (*http.Response, error) {
		calls++
		body := readBody(req)
		switch calls {
		case 1:
			assert.Nil(t, body["nextToken"])
			return jsonResponse(http.StatusOK, `{"campaigns":[{"campaignId":"1"}],"nextToken":"page-2"}`), nil
		case 2:
			assert.Equal(t, "page-2", body["nextToken"])
			return jsonResponse(http.StatusOK, `{"campaigns":[{"campaignId":"2"}],"nextToken":"page-3"}`), nil
		default:
			assert.Equal(t, "page-3", body["nextToken"])
			return jsonResponse(http.StatusOK, `{"campaigns":[{"campaignId":"3"}]}`), nil
		}
	}))

	result, err := client.ListCampaigns(context.Background(), nil)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	require.Len(t, result, 3)
	assert.Equal(t, "1", result[0]["campaignId"])
	assert.Equal(t, "2", result[1]["campaignId"])
	assert.Equal(t, "3", result[2]["campaignId"])
}

// =============================================================================
// Resource Operation Tests
// =============================================================================

func TestListCampaigns_FilterShape(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		stateFilter, _ := body["stateFilter"].(map[string]any)
		include, _ := stateFilter["include"].([]any)
		nameFilter, _ := body["nameFilter"].(map[string]any)
		return len(include) == 2 &&
			include[0] == "ENABLED" && include[1] == "PAUSED" &&
			nameFilter["queryTermMatchType"] == "BROAD_MATCH" &&
			body["includeExtendedDataFields"] == true
	})).Return(jsonResponse(http.StatusOK, `{"campaigns":[]}`), nil).Once()

	_, err := client.ListCampaigns(context.Background(), &CampaignFilter{
		States:       []string{StateEnabled, StatePaused},
		NameContains: []string{"Brand"},
		ExtendedData: true,
	})

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestListCampaigns_DefaultFilterShape(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		stateFilter, _ := body["stateFilter"].(map[string]any)
		include, _ := stateFilter["include"].([]any)
		_, hasName := body["nameFilter"]
		_, hasExtended := body["includeExtendedDataFields"]
		return len(include) == 3 && !hasName && !hasExtended
	})).Return(jsonResponse(http.StatusOK, `{"campaigns":[]}`), nil).Once()

	_, err := client.ListCampaigns(context.Background(), nil)

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestCreateCampaigns_BatchOrderPreserved(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	respBody := `{"campaigns":{"success":[{"index":0,"campaignId":"111"},{"index":1,"campaignId":"222"}],` +
		`"error":[{"index":2,"errors":[{"errorType":"INVALID_BUDGET"}]}]}}`

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		records, _ := body["campaigns"].([]any)
		if len(records) != 3 {
			return false
		}
		first, _ := records[0].(map[string]any)
		return req.Method == http.MethodPost &&
			strings.HasSuffix(req.URL.Path, "/sp/campaigns") &&
			first["name"] == "Campaign A"
	})).Return(jsonResponse(http.StatusMultiStatus, respBody), nil).Once()

	result, err := client.CreateCampaigns(context.Background(), []map[string]any{
		{"name": "Campaign A"},
		{"name": "Campaign B"},
		{"name": "Campaign C"},
	})

	require.NoError(t, err)
	require.Len(t, result.Success, 2)
	require.Len(t, result.Error, 1)
	assert.Equal(t, "111", result.Success[0]["campaignId"])
	assert.Equal(t, "222", result.Success[1]["campaignId"])
	assert.Equal(t, float64(2), result.Error[0]["index"])
	mockClient.AssertNumberOfCalls(t, "Do", 1)
}

func TestUpdateAdGroups_UsesPut(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodPut &&
			strings.HasSuffix(req.URL.Path, "/sp/adGroups") &&
			req.Header.Get("Content-Type") == mediaTypeAdGroup
	})).Return(jsonResponse(http.StatusOK, `{"adGroups":{"success":[{"index":0,"adGroupId":"9"}],"error":[]}}`), nil).Once()

	result, err := client.UpdateAdGroups(context.Background(), []map[string]any{
		{"adGroupId": "9", "state": StatePaused},
	})

	require.NoError(t, err)
	require.Len(t, result.Success, 1)
	mockClient.AssertExpectations(t)
}

func TestDeleteProductAds_FilterKey(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		filter, _ := body["adIdFilter"].(map[string]any)
		include, _ := filter["include"].([]any)
		return strings.HasSuffix(req.URL.Path, "/sp/productAds/delete") &&
			len(include) == 1 && include[0] == "ad-1"
	})).Return(jsonResponse(http.StatusOK, `{"productAds":{"success":[{"index":0,"adId":"ad-1"}],"error":[]}}`), nil).Once()

	result, err := client.DeleteProductAds(context.Background(), []string{"ad-1"})

	require.NoError(t, err)
	assert.Len(t, result.Success, 1)
	mockClient.AssertExpectations(t)
}

func TestListKeywords_DefaultMatchTypes(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		matchTypes, _ := body["matchTypeFilter"].([]any)
		return strings.HasSuffix(req.URL.Path, "/sp/keywords/list") &&
			len(matchTypes) == 3 &&
			matchTypes[0] == "BROAD" && matchTypes[1] == "EXACT" && matchTypes[2] == "PHRASE"
	})).Return(jsonResponse(http.StatusOK, `{"keywords":[]}`), nil).Once()

	_, err := client.ListKeywords(context.Background(), nil)

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

func TestDeleteNegativeKeywords_FilterKey(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	// Negative keyword deletion filters by keywordIdFilter, not a
	// negativeKeywordIdFilter.
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		filter, _ := body["keywordIdFilter"].(map[string]any)
		include, _ := filter["include"].([]any)
		return strings.HasSuffix(req.URL.Path, "/sp/negativeKeywords/delete") &&
			len(include) == 2
	})).Return(jsonResponse(http.StatusOK, `{"negativeKeywords":{"success":[],"error":[]}}`), nil).Once()

	_, err := client.DeleteNegativeKeywords(context.Background(), []string{"nk-1", "nk-2"})

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

// =============================================================================
// Recommendation Tests
// =============================================================================

func TestKeywordRecommendations_RequestShape(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		return strings.HasSuffix(req.URL.Path, "/sp/targets/keywords/recommendations") &&
			req.Header.Get("Accept") == mediaTypeKeywordRecommendation &&
			body["recommendationType"] == "KEYWORDS_FOR_ADGROUP" &&
			body["campaignId"] == "c-1" &&
			body["adGroupId"] == "ag-1" &&
			body["maxRecommendations"] == float64(0)
	})).Return(jsonResponse(http.StatusOK, `{"keywordTargetList":[{"keyword":"running shoes"}]}`), nil).Once()

	result, err := client.KeywordRecommendations(context.Background(), "c-1", "ag-1",
		[]map[string]any{{"asin": "B000000000"}})

	require.NoError(t, err)
	assert.NotEmpty(t, result["keywordTargetList"])
	mockClient.AssertExpectations(t)
}

func TestBidRecommendations_DefaultExpressions(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		expressions, _ := body["targetingExpressions"].([]any)
		adGroupIDs, _ := body["adGroupId"].([]any)
		return req.Header.Get("Accept") == mediaTypeBidRecommendation &&
			body["recommendationType"] == "BIDS_FOR_EXISTING_AD_GROUP" &&
			len(expressions) == 4 &&
			len(adGroupIDs) == 2
	})).Return(jsonResponse(http.StatusOK, `{"bidRecommendations":[]}`), nil).Once()

	_, err := client.BidRecommendations(context.Background(), "c-1", []string{"ag-1", "ag-2"}, nil)

	require.NoError(t, err)
	mockClient.AssertExpectations(t)
}

// =============================================================================
// Report Tests
// =============================================================================

func TestCreateReport_Success(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	respBody := `{"reportId":"rpt-123","status":"PENDING","name":"Report","startDate":"2023-10-01","endDate":"2023-10-07"}`

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		body := readBody(req)
		config, _ := body["configuration"].(map[string]any)
		columns, _ := config["columns"].([]any)
		return strings.HasSuffix(req.URL.Path, "/reporting/reports") &&
			req.Header.Get("Content-Type") == mediaTypeCreateReport &&
			body["name"] == "Report" &&
			body["startDate"] == "2023-10-01" &&
			body["endDate"] == "2023-10-07" &&
			config["adProduct"] == "SPONSORED_PRODUCTS" &&
			config["reportTypeId"] == "spSearchTerm" &&
			config["timeUnit"] == "SUMMARY" &&
			config["format"] == "GZIP_JSON" &&
			len(columns) > 0
	})).Return(jsonResponse(http.StatusOK, respBody), nil).Once()

	status, err := client.CreateReport(context.Background(),
		reports.NewSearchTerm("2023-10-01", "2023-10-07"))

	require.NoError(t, err)
	assert.Equal(t, "rpt-123", status.ReportID)
	assert.True(t, status.Pending())
	mockClient.AssertExpectations(t)
}

func TestGetReport_PendingIsNotAnError(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.Method == http.MethodGet &&
			strings.HasSuffix(req.URL.Path, "/reporting/reports/rpt-123") &&
			req.Header.Get("Accept") == mediaTypeReport &&
			req.Header.Get("Content-Type") == ""
	})).Return(jsonResponse(http.StatusOK, `{"reportId":"rpt-123","status":"PENDING"}`), nil).Once()

	status, err := client.GetReport(context.Background(), "rpt-123")

	require.NoError(t, err)
	assert.True(t, status.Pending())
	assert.False(t, status.Completed())
	assert.Empty(t, status.URL)
	mockClient.AssertExpectations(t)
}

func TestWaitForReport_PollsUntilCompleted(t *testing.T) {
	statuses := []string{"PENDING", "PROCESSING", "COMPLETED"}
	calls := 0
	client := newTestClient(t, httpClientFunc(func(req *http.Request) (*http.Response, error) {
		body := fmt.Sprintf(`{"reportId":"rpt-123","status":"%s","url":"https://files.test/rpt-123.gz"}`,
			statuses[calls])
		calls++
		return jsonResponse(http.StatusOK, body), nil
	}))

	status, err := client.WaitForReport(context.Background(), "rpt-123", time.Millisecond)

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.True(t, status.Completed())
}

func TestWaitForReport_ContextCancellation(t *testing.T) {
	client := newTestClient(t, httpClientFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"reportId":"rpt-123","status":"PENDING"}`), nil
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Millisecond)
	defer cancel()

	_, err := client.WaitForReport(ctx, "rpt-123", 10*time.Millisecond)

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWaitForReport_FailedIsReturned(t *testing.T) {
	client := newTestClient(t, httpClientFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK,
			`{"reportId":"rpt-123","status":"FAILED","failureReason":"INTERNAL_ERROR"}`), nil
	}))

	status, err := client.WaitForReport(context.Background(), "rpt-123", time.Millisecond)

	require.NoError(t, err)
	assert.True(t, status.Failed())
	assert.Equal(t, "INTERNAL_ERROR", status.FailureReason)
}

func TestDownloadReport_Success(t *testing.T) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(`[{"campaignId":"1","impressions":100},{"campaignId":"2","impressions":50}]`))
	require.NoError(t, err)
	require.NoError(t, gz.Close())

	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	// The presigned URL is fetched without any Amazon headers.
	mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
		return req.URL.String() == "https://files.test/rpt-123.gz" &&
			req.Header.Get("Authorization") == "" &&
			req.Header.Get("Amazon-Advertising-API-ClientId") == ""
	})).Return(&http.Response{
		StatusCode: http.StatusOK,
		Header:     make(http.Header),
		Body:       io.NopCloser(bytes.NewReader(buf.Bytes())),
	}, nil).Once()

	rows, err := client.DownloadReport(context.Background(), &ReportStatus{
		ReportID: "rpt-123",
		Status:   ReportStatusCompleted,
		URL:      "https://files.test/rpt-123.gz",
	})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0]["campaignId"])
	assert.Equal(t, float64(100), rows[0]["impressions"])
	mockClient.AssertExpectations(t)
}

func TestDownloadReport_RefusesPendingReport(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	_, err := client.DownloadReport(context.Background(), &ReportStatus{
		ReportID: "rpt-123",
		Status:   ReportStatusPending,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not completed")
	mockClient.AssertNumberOfCalls(t, "Do", 0)
}

func TestDownloadReport_MissingURL(t *testing.T) {
	mockClient := new(MockHTTPClient)
	client := newTestClient(t, mockClient)

	_, err := client.DownloadReport(context.Background(), &ReportStatus{
		ReportID: "rpt-123",
		Status:   ReportStatusCompleted,
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no download URL")
}
