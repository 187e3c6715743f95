package rule

// yamlRule is the intermediate struct for parsing a rule YAML document.
// Maps YAML fields to types.Rule.
type yamlRule struct {
	Name        string   `yaml:"name"`
	ID          string   `yaml:"id"`
	Keywords    []string `yaml:"keywords,omitempty"`
	Pattern     string   `yaml:"pattern,omitempty"`
	Replacement string   `yaml:"replacement,omitempty"`
	Description string   `yaml:"description,omitempty"`
	References  []string `yaml:"references,omitempty"`
	Categories  []string `yaml:"categories,omitempty"`
}

// yamlRulesFile represents the top-level structure of a rules YAML file:
// a "rules" array at the top level.
type yamlRulesFile struct {
	Rules []yamlRule `yaml:"rules"`
}

// yamlRuleset is the intermediate struct for parsing a ruleset YAML document.
type yamlRuleset struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description,omitempty"`
	RuleIDs     []string `yaml:"include_rule_ids"`
}

// yamlRulesetsFile represents the top-level structure of a rulesets YAML file.
type yamlRulesetsFile struct {
	Rulesets []yamlRuleset `yaml:"rulesets"`
}
