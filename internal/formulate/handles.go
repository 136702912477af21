package formulate

// VarGroup addresses a block of decision variables laid out entity-major:
// column(i, h) for entity i of Count and in-window hour h of Hours.
// Groups are the structured replacement for discovering variables by name:
// the formulator hands them out, the extractor indexes with them.
type VarGroup struct {
	Offset int
	Count  int
	Hours  int
}

// Col returns the column index for (entity, hour).
func (g VarGroup) Col(i, h int) int { return g.Offset + i*g.Hours + h }

// Size returns the number of columns in the group.
func (g VarGroup) Size() int { return g.Count * g.Hours }

// End returns one past the last column index.
func (g VarGroup) End() int { return g.Offset + g.Size() }

// ConGroup addresses a block of constraint rows, entity-major like VarGroup.
type ConGroup struct {
	Offset int
	Count  int
	Hours  int
}

// Row returns the row index for (entity, hour).
func (g ConGroup) Row(i, h int) int { return g.Offset + i*g.Hours + h }

// Size returns the number of rows in the group.
func (g ConGroup) Size() int { return g.Count * g.Hours }

// End returns one past the last row index.
func (g ConGroup) End() int { return g.Offset + g.Size() }

// Handles is the arena of typed variable and constraint groups for one
// interval model.
type Handles struct {
	StartHour int
	Hours     int

	// Variable groups. Gen/Flow/Angle are always present; Shed and Viol
	// only when the corresponding relaxation is enabled.
	Gen   VarGroup // generator x hour
	Flow  VarGroup // line (AC branches then DC lines) x hour
	Angle VarGroup // bus x hour

	HasShed bool
	Shed    VarGroup // bus x hour

	HasViol bool
	Viol    VarGroup // finite-rating line x hour, indexed like FiniteLines

	// Constraint groups.
	Balance    ConGroup // bus x hour, withdrawal form: price = -dual
	AngleRel   ConGroup // AC branch x hour
	LimitLower ConGroup // finite-rating line x hour
	LimitUpper ConGroup // finite-rating line x hour
	Ramp       ConGroup // ramp-limited generator x (hour pairs, Hours-1)
	RampInit   ConGroup // ramp-limited generator x 1, only when chained

	// FiniteLines maps LimitLower/LimitUpper/Viol entity positions back to
	// line indices; RampGens does the same for Ramp/RampInit and generators.
	FiniteLines []int
	RampGens    []int
}
