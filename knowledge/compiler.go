package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hupe1980/deskbrief/logging"
)

// Source filenames looked up by Load, matching the on-disk layout of the
// knowledge directory.
const (
	DirectoryFile = "employees.json"
	PoliciesFile  = "policies.json"
	ProtocolsFile = "protocols.json"
	CompanyFile   = "company.json"
	StrategyFile  = "strategy.json"
)

// Load reads the five optional source documents from dir. Each document is
// attempted independently: absence is not an error, and a malformed file is
// logged and skipped so the briefing is assembled from whatever succeeded.
func Load(dir string, logger logging.Logger) Sources {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	var src Sources
	src.Directory = loadDoc[Directory](dir, DirectoryFile, logger)
	src.Policies = loadDoc[Policies](dir, PoliciesFile, logger)
	src.Protocols = loadDoc[Protocols](dir, ProtocolsFile, logger)
	src.Company = loadDoc[Company](dir, CompanyFile, logger)
	src.Strategy = loadDoc[Strategy](dir, StrategyFile, logger)
	return src
}

func loadDoc[T any](dir, name string, logger logging.Logger) *T {
	raw, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug("knowledge source absent", "file", name)
		} else {
			logger.Error("knowledge source unreadable", "file", name, "error", err)
		}
		return nil
	}
	var doc T
	if err := json.Unmarshal(raw, &doc); err != nil {
		logger.Error("knowledge source malformed", "file", name, "error", err)
		return nil
	}
	logger.Info("knowledge source loaded", "file", name)
	return &doc
}

// Compile flattens the present source documents into a single briefing in
// fixed section order: directory, policies, protocols, company profile,
// strategy. Missing fields within a present document are skipped, not
// defaulted. The output is deterministic for identical inputs.
func Compile(src Sources) string {
	var b briefing
	if src.Directory != nil {
		b.directory(src.Directory)
	}
	if src.Policies != nil {
		b.policies(src.Policies)
	}
	if src.Protocols != nil {
		b.protocols(src.Protocols)
	}
	if src.Company != nil {
		b.company(&src.Company.Company)
	}
	if src.Strategy != nil {
		b.strategy(&src.Strategy.Strategy)
	}
	return strings.Join(b.lines, "\n")
}

type briefing struct {
	lines []string
}

func (b *briefing) add(format string, args ...any) {
	b.lines = append(b.lines, fmt.Sprintf(format, args...))
}

func (b *briefing) directory(d *Directory) {
	b.add("EMPLOYEE DIRECTORY")
	for _, emp := range d.Employees {
		b.add("• %s - %s (%s)", emp.Name, emp.Role, emp.Department)
		if emp.Email != "" {
			b.add("  Email: %s", emp.Email)
		}
		if len(emp.Expertise) > 0 {
			b.add("  Expertise: %s", strings.Join(emp.Expertise, ", "))
		}
		if len(emp.ContactFor) > 0 {
			b.add("  Contact for: %s", strings.Join(emp.ContactFor, ", "))
		}
		b.add("")
	}
}

func (b *briefing) policies(p *Policies) {
	b.add("COMPANY POLICIES")
	for _, policy := range p.Policies {
		b.add("Policy: %s", policy.Title)
		if policy.Category != "" {
			b.add("Category: %s", policy.Category)
		}
		if policy.Description != "" {
			b.add("Description: %s", policy.Description)
		}
		if len(policy.KeyPoints) > 0 {
			b.add("Key Points:")
			for _, point := range policy.KeyPoints {
				b.add("  - %s", point)
			}
		}
		if policy.Owner != "" {
			b.add("Owner: %s", policy.Owner)
		}
		b.add("")
	}
}

func (b *briefing) protocols(p *Protocols) {
	b.add("PROCEDURES AND PROTOCOLS")
	for _, protocol := range p.Protocols {
		b.add("Process: %s", protocol.Name)
		if protocol.Description != "" {
			b.add("Description: %s", protocol.Description)
		}
		if len(protocol.Steps) > 0 {
			b.add("Steps:")
			for _, step := range protocol.Steps {
				b.add("  Step %d: %s", step.Step, step.Title)
				for _, action := range step.Actions {
					b.add("    - %s", action)
				}
				if step.ContactIfHelpNeeded != "" {
					b.add("    Contact: %s", step.ContactIfHelpNeeded)
				}
			}
		}
		b.add("")
	}
}

func (b *briefing) company(c *CompanyProfile) {
	b.add("COMPANY INFORMATION")
	b.add("Company: %s", c.Name)
	if c.Mission != "" {
		b.add("Mission: %s", c.Mission)
	}
	if len(c.Values) > 0 {
		b.add("Values: %s", strings.Join(c.Values, ", "))
	}
	if len(c.Products) > 0 {
		b.add("Products:")
		for _, product := range c.Products {
			b.add("  - %s: %s", product.Name, product.Description)
		}
	}
	b.add("")
}

func (b *briefing) strategy(s *StrategyPlan) {
	b.add("COMPANY STRATEGY")
	if s.FiscalYear != "" {
		b.add("Fiscal Year: %s", s.FiscalYear)
	}
	if len(s.RevenueGoals) > 0 {
		b.add("Revenue Goals:")
		// Map iteration order is random; sort keys so the briefing is
		// byte-identical across compilations.
		keys := make([]string, 0, len(s.RevenueGoals))
		for k := range s.RevenueGoals {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			b.add("  - %s: %v", titleize(k), s.RevenueGoals[k])
		}
	}
	if s.CompetitivePositioning != nil && len(s.CompetitivePositioning.OurAdvantages) > 0 {
		b.add("Competitive Advantages:")
		for _, adv := range s.CompetitivePositioning.OurAdvantages {
			b.add("  - %s", adv)
		}
	}
	b.add("")
}

// titleize turns a snake_case key into a title-cased label ("q1_target" →
// "Q1 Target").
func titleize(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
