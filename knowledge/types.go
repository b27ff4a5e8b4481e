package knowledge

// Employee is one entry of the employee directory document.
type Employee struct {
	Name       string   `json:"name"`
	Role       string   `json:"role"`
	Department string   `json:"department"`
	Email      string   `json:"email"`
	Expertise  []string `json:"expertise"`
	ContactFor []string `json:"contact_for,omitempty"`
}

// Directory is the employee directory document (employees.json).
type Directory struct {
	Employees []Employee `json:"employees"`
}

// Policy is one entry of the company policies document.
type Policy struct {
	Title       string   `json:"title"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	KeyPoints   []string `json:"key_points"`
	Owner       string   `json:"owner"`
}

// Policies is the company policies document (policies.json).
type Policies struct {
	Policies []Policy `json:"policies"`
}

// ProtocolStep is one step of a procedure.
type ProtocolStep struct {
	Step                int      `json:"step"`
	Title               string   `json:"title"`
	Actions             []string `json:"actions"`
	ContactIfHelpNeeded string   `json:"contact_if_help_needed,omitempty"`
}

// Protocol is one entry of the procedures document.
type Protocol struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Steps       []ProtocolStep `json:"steps,omitempty"`
}

// Protocols is the procedures and protocols document (protocols.json).
type Protocols struct {
	Protocols []Protocol `json:"protocols"`
}

// Product is one product of the company profile.
type Product struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CompanyProfile is the inner company object of company.json.
type CompanyProfile struct {
	Name     string    `json:"name"`
	Mission  string    `json:"mission"`
	Values   []string  `json:"values"`
	Products []Product `json:"products"`
}

// Company is the company information document (company.json).
type Company struct {
	Company CompanyProfile `json:"company"`
}

// Positioning holds the competitive positioning block of the strategy.
type Positioning struct {
	OurAdvantages []string `json:"our_advantages"`
}

// StrategyPlan is the inner strategy object of strategy.json.
type StrategyPlan struct {
	FiscalYear             string         `json:"fiscal_year"`
	RevenueGoals           map[string]any `json:"revenue_goals"`
	CompetitivePositioning *Positioning   `json:"competitive_positioning,omitempty"`
}

// Strategy is the company strategy document (strategy.json).
type Strategy struct {
	Strategy StrategyPlan `json:"strategy"`
}

// Sources aggregates the five optional knowledge documents. A nil document
// simply omits its section from the compiled briefing.
type Sources struct {
	Directory *Directory
	Policies  *Policies
	Protocols *Protocols
	Company   *Company
	Strategy  *Strategy
}
