package constants

// Default unit-synonym lists for torque units as they appear on labels and
// in the spec table. Stored comma-separated so the settings table can
// override them (keys synonyms_ft_lb, synonyms_in_lb, synonyms_nm).
const (
	DefaultFtLbSynonyms = "ft/lb,ft-lb,ft.lb,ft lb,ft/lbs,ft-lbs,ft.lbs,ft lbs"
	DefaultInLbSynonyms = "in/lb,in-lb,in.lb,in lb,in/lbs,in-lbs,in.lbs,in lbs"
	DefaultNmSynonyms   = "nm,n.m,n*m,nm.,n.m."
)

// Conversion factors to newton-metres.
const (
	FtLbToNm = 1.35582
	InLbToNm = 0.113
)
