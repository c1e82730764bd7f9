package datasetname

// DefaultPatternRules is the group table used when config doesn't provide one. Order matters!
func DefaultPatternRules() []PatternRule {
	return []PatternRule{
		{Pattern: `DCLP\d*`, Group: "DCLP"},
		{Pattern: `Loop_Part\d+_of_\d+`, Group: "Loop study public dataset"},
		{Pattern: `Tidepool-JDRF-.*`, Group: "JDRF_CGM_RCT"},
		{Pattern: `Flair`, Group: "FLAIRPublicDataSet"},
		{Pattern: `OpenAPS`, Group: "OpenAPS Data"},
		{Pattern: `ShanghaiT1DM`, Group: "Shanghai"},
		{Pattern: `CTR3`, Group: "CTR3"},
		{Pattern: `PEDAP`, Group: "PEDAP Public Dataset"},
		{Pattern: `OhioT1DM`, Group: "OhioT1DM"},
		{Pattern: `T1DEXI`, Group: "JAEB_ilet_trial"},
		{Pattern: `T1DEXIP`, Group: "T1DEXI"},
		{Pattern: `AZT1D`, Group: "AIDE_T1D"},
		{Pattern: `DiaTrend`, Group: "DiaTrend"},
		{Pattern: `HUPA-UCM`, Group: "HUPA-UCM"},
		{Pattern: `IOBP2`, Group: "IOBP2"},
	}
}

func DefaultPublicGroups() []string {
	return []string{
		"Loop study public dataset",
		"FLAIRPublicDataSet",
		"OpenAPS Data",
		"PEDAP Public Dataset",
		"Shanghai",
		"public-dataset", // archives/public-dataset.zip, the combined public download
	}
}
