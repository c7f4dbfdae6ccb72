package casing

// Apply runs name through each conversion in cases, left to right. The output
// of one stage is the input of the next; an empty pipeline returns name as is.
func Apply(name string, cases []Case) string {
	out := name
	for _, c := range cases {
		out = Lookup(c)(out)
	}
	return out
}
