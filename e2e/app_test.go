package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite provides a test suite for end-to-end tests
type E2ETestSuite struct {
	suite.Suite
	pw      *playwright.Playwright
	browser playwright.Browser
	page    playwright.Page
	expect  playwright.PlaywrightAssertions
}

// SetupSuite runs once before all tests
func (suite *E2ETestSuite) SetupSuite() {
	pw, err := playwright.Run()
	require.NoError(suite.T(), err, "could not launch playwright")
	suite.pw = pw

	browser, err := pw.Chromium.Launch()
	require.NoError(suite.T(), err, "could not launch chromium")
	suite.browser = browser

	suite.expect = playwright.NewPlaywrightAssertions()
}

// TearDownSuite runs once after all tests
func (suite *E2ETestSuite) TearDownSuite() {
	if suite.browser != nil {
		suite.browser.Close()
	}
	if suite.pw != nil {
		suite.pw.Stop()
	}
}

// SetupTest runs before each test
func (suite *E2ETestSuite) SetupTest() {
	page, err := suite.browser.NewPage()
	require.NoError(suite.T(), err, "could not create page")
	suite.page = page

	_, err = suite.page.Goto(appURL)
	require.NoError(suite.T(), err, "could not navigate to app")
}

// TearDownTest runs after each test
func (suite *E2ETestSuite) TearDownTest() {
	if suite.page != nil {
		suite.page.Close()
	}
}

func (suite *E2ETestSuite) login() {
	// Wait for login form
	err := suite.expect.Locator(suite.page.Locator(".login-form")).ToBeVisible()
	require.NoError(suite.T(), err, "login form not visible")

	// Fill in credentials
	err = suite.page.Locator("input[name=username]").Fill("testuser")
	require.NoError(suite.T(), err, "failed to fill username")

	err = suite.page.Locator("input[name=password]").Fill("testpass123")
	require.NoError(suite.T(), err, "failed to fill password")

	// Submit login
	err = suite.page.Locator(".login-btn").Click()
	require.NoError(suite.T(), err, "failed to click login")

	// Wait for redirect to the dashboard after login
	err = suite.expect.Locator(suite.page.Locator(".dashboard-screen")).ToBeVisible()
	require.NoError(suite.T(), err, "did not redirect to dashboard after login")
}

func (suite *E2ETestSuite) TestCompleteUserFlow() {
	// Login
	suite.login()

	// Verify dashboard stat cards
	err := suite.expect.Locator(suite.page.Locator(".stat-total .stat-label")).ToHaveText("Total tasks")
	require.NoError(suite.T(), err, "dashboard assertion failed")

	// Navigate to the task list
	_, err = suite.page.Goto(appURL + "/tasks")
	require.NoError(suite.T(), err, "could not navigate to tasks")

	err = suite.expect.Locator(suite.page.Locator("#task-form")).ToBeVisible()
	require.NoError(suite.T(), err, "task form not visible")

	// Fill in the new task
	err = suite.page.Locator("input[name=title]").Fill("Write report")
	require.NoError(suite.T(), err, "failed to fill title")

	err = suite.page.Locator("textarea[name=description]").Fill("Quarterly summary")
	require.NoError(suite.T(), err, "failed to fill description")

	err = suite.page.Locator("input[name=deadline]").Fill("2026-09-15")
	require.NoError(suite.T(), err, "failed to fill deadline")

	_, err = suite.page.Locator("select[name=priority]").SelectOption(playwright.SelectOptionValues{
		Values: &[]string{"high"},
	})
	require.NoError(suite.T(), err, "failed to select priority")

	// Submit
	err = suite.page.Locator("button.submit").Click()
	require.NoError(suite.T(), err, "failed to submit task")

	// Verify in list
	err = suite.expect.Locator(suite.page.Locator(".task-item")).ToHaveCount(1)
	require.NoError(suite.T(), err, "task item count mismatch")

	item := suite.page.Locator(".task-item").First()
	err = suite.expect.Locator(item.Locator(".task-details strong")).ToHaveText("Write report")
	require.NoError(suite.T(), err, "title mismatch")

	err = suite.expect.Locator(item.Locator(".status")).ToHaveText("belum selesai")
	require.NoError(suite.T(), err, "new task should start pending")

	// Toggle to completed
	err = item.Locator(".toggle-btn").Click()
	require.NoError(suite.T(), err, "failed to toggle task")

	item = suite.page.Locator(".task-item").First()
	err = suite.expect.Locator(item.Locator(".status")).ToHaveText("sudah selesai")
	require.NoError(suite.T(), err, "task should be completed after toggle")

	// Dashboard reflects the completed task
	_, err = suite.page.Goto(appURL + "/dashboard")
	require.NoError(suite.T(), err, "could not navigate to dashboard")

	err = suite.expect.Locator(suite.page.Locator(".stat-total .stat-value")).ToHaveText("1")
	require.NoError(suite.T(), err, "total count mismatch")

	err = suite.expect.Locator(suite.page.Locator(".stat-completed .stat-value")).ToHaveText("1")
	require.NoError(suite.T(), err, "completed count mismatch")
}

// TestE2ESuite runs the e2e test suite
func TestE2ESuite(t *testing.T) {
	suite.Run(t, new(E2ETestSuite))
}
