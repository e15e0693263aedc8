package llm

// Threshold is the blocking level applied to one harm category.
type Threshold string

const (
	ThresholdUnspecified Threshold = ""
	ThresholdBlockNone   Threshold = "BLOCK_NONE"
	ThresholdOnlyHigh    Threshold = "BLOCK_ONLY_HIGH"
	ThresholdMedium      Threshold = "BLOCK_MEDIUM_AND_ABOVE"
	ThresholdLowAndAbove Threshold = "BLOCK_LOW_AND_ABOVE"
)

// SafetyConfig sets the provider content filters per harm category.
// Unspecified categories keep the provider default.
type SafetyConfig struct {
	Harassment       Threshold
	HateSpeech       Threshold
	SexuallyExplicit Threshold
	DangerousContent Threshold
}

// PermissiveSafety disables blocking for every category. This is the
// storefront's configured choice and is passed explicitly at dialogue start.
var PermissiveSafety = SafetyConfig{
	Harassment:       ThresholdBlockNone,
	HateSpeech:       ThresholdBlockNone,
	SexuallyExplicit: ThresholdBlockNone,
	DangerousContent: ThresholdBlockNone,
}
