package constants

// LabelFieldNames holds the canonical keys read off a wrench label, in the
// order they appear on the entry form. Every extraction result carries
// exactly these keys.
var LabelFieldNames = []string{
	"manufacturer",
	"model",
	"unit",
	"serial",
	"customer",
	"phone",
	"address",
	"max_torque",
	"torque_unit",
}
