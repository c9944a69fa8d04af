package doctor

import (
	"testing"

	"github.com/stretchr/testify/mock"
)

// mockCheck is a Check (and optionally Fixer) driven by testify/mock.
type mockCheck struct {
	mock.Mock
}

func newMockCheck(t *testing.T) *mockCheck {
	m := &mockCheck{}
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *mockCheck) Name() string     { return m.Called().String(0) }
func (m *mockCheck) Category() string { return m.Called().String(0) }

func (m *mockCheck) Run() *CheckResult {
	return m.Called().Get(0).(*CheckResult)
}

type mockFixer struct {
	*mockCheck
}

func (m mockFixer) CanFix() bool { return m.Called().Bool(0) }

func (m mockFixer) Fix() []FixResult {
	return m.Called().Get(0).([]FixResult)
}
