package diag

// Code is a stable numeric identifier for a lint diagnostic, namespaced by
// the rule that produced it (one hundred-block per §4.5 rule).
type Code uint16

const (
	UnknownCode Code = 0

	// propagate-feature (§4.5.1)
	PropagateFeatureMissing Code = 1001
	PropagateMissing        Code = 1002

	// never-enables (§4.5.2)
	NeverEnablesViolation Code = 1101

	// never-implies (§4.5.3)
	NeverImpliesCounterexample Code = 1201

	// only-enables (§4.5.4)
	OnlyEnablesViolation Code = 1301

	// why-enabled (§4.5.5)
	WhyEnabledNotFound Code = 1401

	// duplicate-deps (§4.5.6)
	DuplicateDependency Code = 1501

	// no-std default-features (§4.5.7)
	NoStdDefaultFeaturesEnabled Code = 1601
	NoStdCfgWarning             Code = 1602
)

func (c Code) String() string {
	switch c {
	case PropagateFeatureMissing:
		return "propagate-feature-missing"
	case PropagateMissing:
		return "propagate-missing"
	case NeverEnablesViolation:
		return "never-enables"
	case NeverImpliesCounterexample:
		return "never-implies"
	case OnlyEnablesViolation:
		return "only-enables"
	case WhyEnabledNotFound:
		return "why-enabled-not-found"
	case DuplicateDependency:
		return "duplicate-deps"
	case NoStdDefaultFeaturesEnabled:
		return "no-std-default-features-enabled"
	case NoStdCfgWarning:
		return "no-std-cfg-warning"
	default:
		return "unknown"
	}
}
