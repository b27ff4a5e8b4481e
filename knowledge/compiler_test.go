package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/deskbrief/logging"
)

func sampleSources() Sources {
	return Sources{
		Directory: &Directory{Employees: []Employee{
			{
				Name:       "Ada Park",
				Role:       "Head of Engineering",
				Department: "Engineering",
				Email:      "ada@example.com",
				Expertise:  []string{"distributed systems", "hiring"},
				ContactFor: []string{"architecture reviews"},
			},
			{
				Name:       "Ben Osei",
				Role:       "Account Manager",
				Department: "Sales",
				Email:      "ben@example.com",
				Expertise:  []string{"enterprise accounts"},
			},
		}},
		Policies: &Policies{Policies: []Policy{{
			Title:       "Remote Work",
			Category:    "HR",
			Description: "Rules for working remotely.",
			KeyPoints:   []string{"Core hours 10-15", "Weekly sync required"},
			Owner:       "People Ops",
		}}},
		Protocols: &Protocols{Protocols: []Protocol{{
			Name:        "Client Onboarding",
			Description: "Steps to onboard a new client.",
			Steps: []ProtocolStep{{
				Step:                1,
				Title:               "Kickoff call",
				Actions:             []string{"Schedule call", "Send agenda"},
				ContactIfHelpNeeded: "Ben Osei",
			}},
		}}},
		Company: &Company{Company: CompanyProfile{
			Name:     "TechVision",
			Mission:  "Make org knowledge useful.",
			Values:   []string{"clarity", "speed"},
			Products: []Product{{Name: "Briefer", Description: "Knowledge assistant."}},
		}},
		Strategy: &Strategy{Strategy: StrategyPlan{
			FiscalYear:             "2026",
			RevenueGoals:           map[string]any{"q1_target": "1M", "annual": 5.5},
			CompetitivePositioning: &Positioning{OurAdvantages: []string{"domain depth"}},
		}},
	}
}

func TestCompile_Deterministic(t *testing.T) {
	src := sampleSources()

	first := Compile(src)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Compile(src))
	}
}

func TestCompile_SectionOrder(t *testing.T) {
	text := Compile(sampleSources())

	order := []string{
		"EMPLOYEE DIRECTORY",
		"COMPANY POLICIES",
		"PROCEDURES AND PROTOCOLS",
		"COMPANY INFORMATION",
		"COMPANY STRATEGY",
	}
	last := -1
	for _, section := range order {
		idx := strings.Index(text, section)
		require.Greater(t, idx, last, "section %s out of order", section)
		last = idx
	}
}

func TestCompile_MissingDocumentsOmitted(t *testing.T) {
	src := Sources{Company: sampleSources().Company}

	text := Compile(src)
	assert.Contains(t, text, "COMPANY INFORMATION")
	assert.NotContains(t, text, "EMPLOYEE DIRECTORY")
	assert.NotContains(t, text, "COMPANY STRATEGY")
}

func TestCompile_EmptySourcesYieldEmptyBriefing(t *testing.T) {
	assert.Equal(t, "", Compile(Sources{}))
}

func TestCompile_MissingFieldsSkipped(t *testing.T) {
	src := Sources{Directory: &Directory{Employees: []Employee{{
		Name:       "Cara Lin",
		Role:       "Analyst",
		Department: "Finance",
	}}}}

	text := Compile(src)
	assert.Contains(t, text, "• Cara Lin - Analyst (Finance)")
	assert.NotContains(t, text, "Email:")
	assert.NotContains(t, text, "Contact for:")
}

func TestLoad_MalformedDocumentIsIsolated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CompanyFile, `{"company":{"name":"TechVision","mission":"m"}}`)
	writeFile(t, dir, PoliciesFile, `{not json`)

	src := Load(dir, logging.NoOpLogger{})

	require.NotNil(t, src.Company)
	assert.Equal(t, "TechVision", src.Company.Company.Name)
	assert.Nil(t, src.Policies)
	assert.Nil(t, src.Directory)
}

func TestLoad_AbsentDirectoryYieldsNoSources(t *testing.T) {
	src := Load(filepath.Join(t.TempDir(), "missing"), logging.NoOpLogger{})

	assert.Nil(t, src.Directory)
	assert.Nil(t, src.Policies)
	assert.Nil(t, src.Protocols)
	assert.Nil(t, src.Company)
	assert.Nil(t, src.Strategy)
	assert.Equal(t, "", Compile(src))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}
