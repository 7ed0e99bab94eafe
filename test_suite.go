package blogapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/cucumber/godog"
	"github.com/cucumber/godog/colors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

var storedValuePattern = regexp.MustCompile(`\{(\w+)\}`)

// TestSuite drives HTTP feature scenarios against a router, or against a
// running server when BaseURL is set. Values captured from responses are
// kept in Storage and substituted into later paths and bodies as {name}.
type TestSuite struct {
	T           *testing.T
	Router      *gin.Engine
	Resp        *http.Response
	RespBody    []byte
	Storage     map[string]string
	RequestBody []byte
	BaseURL     string
	BeforeEach  func() error
}

type TestLogger struct {
	T *testing.T
}

func (ts *TestSuite) SetBaseURL(baseURL string) {
	ts.BaseURL = baseURL
}

func (ts *TestSuite) InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		ts.Storage = make(map[string]string)
	})
}

func (ts *TestSuite) InitializeScenario(ctx *godog.ScenarioContext) {
	ctx.BeforeScenario(func(sc *godog.Scenario) {
		ts.Resp = nil
		ts.RespBody = nil
		ts.RequestBody = nil
		if ts.BeforeEach != nil {
			if err := ts.BeforeEach(); err != nil {
				ts.T.Fatalf("scenario setup failed: %v", err)
			}
		}
	})

	ctx.Step(`^I send a (GET|DELETE) request to "([^"]*)"$`, ts.iSendARequestTo)
	ctx.Step(`^I send a (POST|PUT) request to "([^"]*)" with body$`, ts.iSendARequestToWithBody)
	ctx.Step(`^the response status should be (\d+)$`, ts.theResponseStatusShouldBe)
	ctx.Step(`^the response "([^"]*)" field is stored as "([^"]*)"$`, ts.theResponseFieldIsStoredAs)
	ctx.Step(`^the response should contain an item with$`, ts.theResponseShouldContainAnItemWith)
	ctx.Step(`^the response "([^"]*)" list should have (\d+) items?$`, ts.theResponseListShouldHaveItems)
	ctx.Step(`^the response body should contain "([^"]*)"$`, ts.theResponseBodyShouldContain)
	ctx.Step(`^the response body should be empty$`, ts.theResponseBodyShouldBeEmpty)
}

func (ts *TestSuite) expand(s string) string {
	return storedValuePattern.ReplaceAllStringFunc(s, func(match string) string {
		if v, ok := ts.Storage[match[1:len(match)-1]]; ok {
			return v
		}
		return match
	})
}

func (ts *TestSuite) do(method, path string, body []byte) error {
	path = ts.expand(path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewBuffer(body)
	}

	req, err := http.NewRequest(method, ts.BaseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if ts.BaseURL != "" {
		client := &http.Client{}
		ts.Resp, err = client.Do(req)
		if err != nil {
			return err
		}
	} else {
		w := httptest.NewRecorder()
		ts.Router.ServeHTTP(w, req)
		ts.Resp = w.Result()
	}

	defer ts.Resp.Body.Close()
	ts.RespBody, err = io.ReadAll(ts.Resp.Body)
	return err
}

func (ts *TestSuite) iSendARequestTo(method, path string) error {
	return ts.do(method, path, nil)
}

func (ts *TestSuite) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	ts.RequestBody = []byte(ts.expand(body.Content))
	return ts.do(method, path, ts.RequestBody)
}

func (ts *TestSuite) theResponseStatusShouldBe(status int) error {
	if ts.Resp.StatusCode != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, ts.Resp.StatusCode, ts.RespBody)
	}
	return nil
}

func (ts *TestSuite) theResponseFieldIsStoredAs(field, key string) error {
	var data map[string]interface{}
	if err := json.Unmarshal(ts.RespBody, &data); err != nil {
		return err
	}
	if val, ok := data[field]; ok {
		ts.Storage[key] = fmt.Sprintf("%v", val)
		return nil
	}
	return fmt.Errorf("field %s not found in response", field)
}

func (ts *TestSuite) theResponseShouldContainAnItemWith(body *godog.Table) error {
	expectedMap, err := ts.parseDataTable(body)
	if err != nil {
		return err
	}

	var actualMap map[string]interface{}
	if err := json.Unmarshal(ts.RespBody, &actualMap); err != nil {
		return err
	}

	for key, expectedValue := range expectedMap {
		actualValue, ok := actualMap[key]
		if !ok {
			return fmt.Errorf("field %s not found in response", key)
		}
		if !assert.ObjectsAreEqual(expectedValue, fmt.Sprintf("%v", actualValue)) {
			return fmt.Errorf("field %s: expected %q, got %v", key, expectedValue, actualValue)
		}
	}
	return nil
}

func (ts *TestSuite) theResponseListShouldHaveItems(field string, count int) error {
	var data map[string][]json.RawMessage
	if err := json.Unmarshal(ts.RespBody, &data); err != nil {
		return err
	}
	items, ok := data[field]
	if !ok {
		return fmt.Errorf("list %s not found in response", field)
	}
	if len(items) != count {
		return fmt.Errorf("expected %d items in %s, got %d", count, field, len(items))
	}
	return nil
}

func (ts *TestSuite) theResponseBodyShouldContain(text string) error {
	text = ts.expand(text)
	if !strings.Contains(string(ts.RespBody), text) {
		return fmt.Errorf("expected response body to contain %q, got %s", text, ts.RespBody)
	}
	return nil
}

func (ts *TestSuite) theResponseBodyShouldBeEmpty() error {
	if len(ts.RespBody) != 0 {
		return fmt.Errorf("expected an empty body, got %s", ts.RespBody)
	}
	return nil
}

func (ts *TestSuite) parseDataTable(body *godog.Table) (map[string]string, error) {
	if len(body.Rows) < 2 {
		return nil, fmt.Errorf("table must have at least two rows")
	}
	headers := body.Rows[0].Cells
	data := make(map[string]string)
	for j, cell := range body.Rows[1].Cells {
		data[headers[j].Value] = ts.expand(cell.Value)
	}
	return data, nil
}

func (tl *TestLogger) Write(p []byte) (n int, err error) {
	if tl.T != nil {
		tl.T.Logf("%s", p)
	}
	return len(p), nil
}

// RunFeatures runs the feature files under paths and fails t when any
// scenario fails.
func RunFeatures(t *testing.T, suite *TestSuite, paths ...string) {
	suite.T = t
	opts := godog.Options{
		Format:    "pretty",
		Output:    colors.Colored(&TestLogger{T: t}),
		Paths:     paths,
		Strict:    true,
		Randomize: 0,
	}

	status := godog.TestSuite{
		Name:                 "blog-api",
		TestSuiteInitializer: suite.InitializeTestSuite,
		ScenarioInitializer:  suite.InitializeScenario,
		Options:              &opts,
	}.Run()
	if status != 0 {
		t.Fatalf("feature suite failed with status %d", status)
	}
}
