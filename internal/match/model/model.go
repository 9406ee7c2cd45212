// Package model defines the data model of the substitution matching engine:
// family logic tables, weighted matching rules, parametric part attributes,
// application context, and the result records the engine emits.
package model

import "fmt"

// LogicType selects the comparison strategy of a matching rule.
type LogicType string

const (
	LogicIdentity          LogicType = "identity"
	LogicIdentityUpgrade   LogicType = "identity_upgrade"
	LogicIdentityFlag      LogicType = "identity_flag"
	LogicThreshold         LogicType = "threshold"
	LogicFit               LogicType = "fit"
	LogicApplicationReview LogicType = "application_review"
	LogicOperational       LogicType = "operational"
)

var validLogicTypes = map[LogicType]bool{
	LogicIdentity:          true,
	LogicIdentityUpgrade:   true,
	LogicIdentityFlag:      true,
	LogicThreshold:         true,
	LogicFit:               true,
	LogicApplicationReview: true,
	LogicOperational:       true,
}

// Valid reports whether t is one of the seven known strategies.
func (t LogicType) Valid() bool { return validLogicTypes[t] }

// ThresholdDirection tells threshold/fit rules which side of the source
// value a candidate may fall on.
type ThresholdDirection string

const (
	DirectionGTE           ThresholdDirection = "gte"
	DirectionLTE           ThresholdDirection = "lte"
	DirectionRangeSuperset ThresholdDirection = "range_superset"
)

var validDirections = map[ThresholdDirection]bool{
	DirectionGTE:           true,
	DirectionLTE:           true,
	DirectionRangeSuperset: true,
}

// Valid reports whether d is a known direction. The empty direction is
// allowed on rules and defaults to gte at evaluation time.
func (d ThresholdDirection) Valid() bool { return d == "" || validDirections[d] }

// EffectType is what a matched context answer does to a rule.
type EffectType string

const (
	EffectEscalateToMandatory EffectType = "escalate_to_mandatory"
	EffectEscalateToPrimary   EffectType = "escalate_to_primary"
	EffectNotApplicable       EffectType = "not_applicable"
	EffectAddReviewFlag       EffectType = "add_review_flag"
	EffectSetThreshold        EffectType = "set_threshold"
)

var validEffects = map[EffectType]bool{
	EffectEscalateToMandatory: true,
	EffectEscalateToPrimary:   true,
	EffectNotApplicable:       true,
	EffectAddReviewFlag:       true,
	EffectSetThreshold:        true,
}

// Valid reports whether e is a known effect.
func (e EffectType) Valid() bool { return validEffects[e] }

// Weight bounds for matching rules.
const (
	MinWeight = 0
	MaxWeight = 10
)

// MatchingRule is one weighted comparison between a source attribute and the
// same attribute on a candidate part.
type MatchingRule struct {
	AttributeID       string    `json:"attributeId" yaml:"attributeId"`
	AttributeName     string    `json:"attributeName" yaml:"attributeName"`
	LogicType         LogicType `json:"logicType" yaml:"logicType"`
	Weight            int       `json:"weight" yaml:"weight"`
	EngineeringReason string    `json:"engineeringReason,omitempty" yaml:"engineeringReason,omitempty"`
	SortOrder         int       `json:"sortOrder" yaml:"sortOrder"`

	// ThresholdDirection applies to threshold rules only; empty means gte.
	// Fit rules ignore it and always compare lte.
	ThresholdDirection ThresholdDirection `json:"thresholdDirection,omitempty" yaml:"thresholdDirection,omitempty"`

	// UpgradeHierarchy applies to identity_upgrade rules: tiers ordered best
	// first, so a candidate at a lower index is an upgrade.
	UpgradeHierarchy []string `json:"upgradeHierarchy,omitempty" yaml:"upgradeHierarchy,omitempty"`

	// BlockOnMissing marks that missing candidate data for this rule should
	// be treated as a hard blocker by the consumer. The evaluator itself
	// only carries it through.
	BlockOnMissing bool `json:"blockOnMissing,omitempty" yaml:"blockOnMissing,omitempty"`
}

// Validate checks the rule's enum fields and weight range.
func (r MatchingRule) Validate() error {
	if r.AttributeID == "" {
		return fmt.Errorf("rule is missing attributeId")
	}
	if !r.LogicType.Valid() {
		return fmt.Errorf("rule %q: unknown logicType %q", r.AttributeID, r.LogicType)
	}
	if r.Weight < MinWeight || r.Weight > MaxWeight {
		return fmt.Errorf("rule %q: weight %d out of range [%d,%d]", r.AttributeID, r.Weight, MinWeight, MaxWeight)
	}
	if !r.ThresholdDirection.Valid() {
		return fmt.Errorf("rule %q: unknown thresholdDirection %q", r.AttributeID, r.ThresholdDirection)
	}
	return nil
}

// LogicTable is a family's ordered set of matching rules. Tables are loaded
// by the catalog and treated as immutable; the context modifier returns
// reweighted copies instead of touching them.
type LogicTable struct {
	FamilyID    string         `json:"familyId" yaml:"familyId"`
	FamilyName  string         `json:"familyName" yaml:"familyName"`
	Category    string         `json:"category" yaml:"category"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []MatchingRule `json:"rules" yaml:"rules"`
}

// ParametricAttribute is one already-normalized attribute value of a part.
// Value is always the textual form; NumericValue is an optional pre-parsed
// number the acquisition side may supply.
type ParametricAttribute struct {
	ParameterID   string   `json:"parameterId" yaml:"parameterId"`
	ParameterName string   `json:"parameterName,omitempty" yaml:"parameterName,omitempty"`
	Value         string   `json:"value" yaml:"value"`
	NumericValue  *float64 `json:"numericValue,omitempty" yaml:"numericValue,omitempty"`
	Unit          string   `json:"unit,omitempty" yaml:"unit,omitempty"`
	SortOrder     int      `json:"sortOrder,omitempty" yaml:"sortOrder,omitempty"`
}

// PartAttributes is a part identifier plus its parameters. ParameterID is
// unique per part; on duplicates the first occurrence wins.
type PartAttributes struct {
	Part       string                `json:"part" yaml:"part"`
	Parameters []ParametricAttribute `json:"parameters" yaml:"parameters"`
}

// ApplicationContext carries the user's answers to a family's qualification
// questions, keyed by question id.
type ApplicationContext struct {
	FamilyID string            `json:"familyId"`
	Answers  map[string]string `json:"answers"`
}

// AttributeEffect is one rule mutation an answered question option applies.
type AttributeEffect struct {
	AttributeID string     `json:"attributeId" yaml:"attributeId"`
	Effect      EffectType `json:"effect" yaml:"effect"`
	Note        string     `json:"note,omitempty" yaml:"note,omitempty"`
	// BlockOnMissing, when true, is stamped onto the rule. It is never
	// cleared by an effect that omits it.
	BlockOnMissing bool `json:"blockOnMissing,omitempty" yaml:"blockOnMissing,omitempty"`
}

// QuestionOption is one predefined answer. Only an exact Value match applies
// its effects; freeform answers never do.
type QuestionOption struct {
	Value   string            `json:"value" yaml:"value"`
	Label   string            `json:"label,omitempty" yaml:"label,omitempty"`
	Effects []AttributeEffect `json:"effects" yaml:"effects"`
}

// ContextQuestion is one qualification question of a family.
type ContextQuestion struct {
	QuestionID string           `json:"questionId" yaml:"questionId"`
	Prompt     string           `json:"prompt,omitempty" yaml:"prompt,omitempty"`
	Options    []QuestionOption `json:"options" yaml:"options"`
}

// FamilyContextConfig is the ordered question set of one family. Question
// order decides which write wins when two answers target the same rule.
type FamilyContextConfig struct {
	FamilyID  string            `json:"familyId" yaml:"familyId"`
	Questions []ContextQuestion `json:"questions" yaml:"questions"`
}

// RuleResult classifies the outcome of evaluating one rule.
type RuleResult string

const (
	ResultPass    RuleResult = "pass"
	ResultFail    RuleResult = "fail"
	ResultUpgrade RuleResult = "upgrade"
	ResultReview  RuleResult = "review"
	ResultInfo    RuleResult = "info"
)

// MatchStatus qualifies how the candidate value relates to the source value.
type MatchStatus string

const (
	StatusExact      MatchStatus = "exact"
	StatusBetter     MatchStatus = "better"
	StatusWorse      MatchStatus = "worse"
	StatusDifferent  MatchStatus = "different"
	StatusCompatible MatchStatus = "compatible"
)

// RuleMatch is the evaluation of a single rule for one candidate.
type RuleMatch struct {
	AttributeID    string      `json:"attributeId"`
	AttributeName  string      `json:"attributeName"`
	SourceValue    string      `json:"sourceValue"`
	CandidateValue string      `json:"candidateValue"`
	LogicType      LogicType   `json:"logicType"`
	Result         RuleResult  `json:"result"`
	MatchStatus    MatchStatus `json:"matchStatus"`
	Note           string      `json:"note,omitempty"`
}

// CandidateEvaluation aggregates all rule matches of one (source, candidate,
// effective-table) triple. Ephemeral: computed fresh per request.
type CandidateEvaluation struct {
	Part            string      `json:"part"`
	MatchPercentage int         `json:"matchPercentage"`
	Passed          bool        `json:"passed"`
	Matches         []RuleMatch `json:"matches"`
	ReviewFlags     []string    `json:"reviewFlags,omitempty"`
	Notes           []string    `json:"notes,omitempty"`
	EarnedWeight    float64     `json:"earnedWeight"`
	TotalWeight     int         `json:"totalWeight"`
}

// Recommendation is one ranked replacement suggestion.
type Recommendation struct {
	Part            string      `json:"part"`
	MatchPercentage int         `json:"matchPercentage"`
	Passed          bool        `json:"passed"`
	Advisory        string      `json:"advisory,omitempty"`
	ReviewFlags     []string    `json:"reviewFlags,omitempty"`
	Matches         []RuleMatch `json:"matches"`
}

// MissingAttributeInfo names a rule the given part has no data for.
type MissingAttributeInfo struct {
	AttributeID       string `json:"attributeId"`
	AttributeName     string `json:"attributeName"`
	Weight            int    `json:"weight"`
	EngineeringReason string `json:"engineeringReason,omitempty"`
	BlockOnMissing    bool   `json:"blockOnMissing,omitempty"`
}

// FamilySummary is the catalog listing entry for one family.
type FamilySummary struct {
	FamilyID      string `json:"familyId"`
	FamilyName    string `json:"familyName"`
	Category      string `json:"category"`
	Description   string `json:"description,omitempty"`
	RuleCount     int    `json:"ruleCount"`
	QuestionCount int    `json:"questionCount"`
}

// MatchRequest is the wire form of a ranking request.
type MatchRequest struct {
	FamilyID   string            `json:"familyId"`
	Source     PartAttributes    `json:"source"`
	Candidates []PartAttributes  `json:"candidates"`
	Answers    map[string]string `json:"answers,omitempty"`
}

// MatchResponse echoes what was applied alongside the ranked result.
type MatchResponse struct {
	FamilyID        string                 `json:"familyId"`
	Source          string                 `json:"source"`
	EffectiveRules  []MatchingRule         `json:"effectiveRules"`
	Recommendations []Recommendation       `json:"recommendations"`
	MissingOnSource []MissingAttributeInfo `json:"missingOnSource,omitempty"`
}

// MissingRequest asks which rule attributes a part has no data for.
type MissingRequest struct {
	FamilyID string         `json:"familyId"`
	Part     PartAttributes `json:"part"`
}
