package generation

import "sort"

// Pattern is a named instruction template prefixed to the user's requirement
// before it is sent to the completion model. The set is fixed at build time.
type Pattern struct {
	Key         string
	Instruction string
}

var patterns = map[string]string{
	"business_email":      "Generate the following content in the format of business email:",
	"product_description": "Write the following content in the tone of a product introduction:",
	"summary":             "Summarize the following content:",
	"work_report":         "Generate the following content in the format of a work report:",
	"grammar_check":       "Check the grammar of the following content and provide suggestions:",
}

func Instruction(key string) (string, bool) {
	instruction, ok := patterns[key]
	return instruction, ok
}

func Patterns() []Pattern {
	all := make([]Pattern, 0, len(patterns))
	for key, instruction := range patterns {
		all = append(all, Pattern{Key: key, Instruction: instruction})
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Key < all[j].Key })
	return all
}
