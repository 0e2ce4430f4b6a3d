package extraction

import "strings"

// skillAliases maps common skill name variants to canonical names
var skillAliases = map[string]string{
	"golang":     "Go",
	"go lang":    "Go",
	"javascript": "JavaScript",
	"js":         "JavaScript",
	"typescript": "TypeScript",
	"ts":         "TypeScript",
	"k8s":        "Kubernetes",
	"kubernetes": "Kubernetes",
	"react.js":   "React",
	"reactjs":    "React",
	"vue":        "Vue.js",
	"vuejs":      "Vue.js",
	"node":       "Node.js",
	"nodejs":     "Node.js",
	"postgres":   "PostgreSQL",
	"postgresql": "PostgreSQL",
	"gcp":        "GCP",
	"ci/cd":      "CI/CD",
	"ml":         "Machine Learning",
}

// NormalizeSkill maps a model-reported skill to its canonical spelling.
// Known aliases are replaced, lower-case single words are capitalized and
// anything with deliberate casing (AWS, iOS, PyTorch) is kept.
func NormalizeSkill(skill string) string {
	s := strings.TrimSpace(skill)
	if s == "" {
		return ""
	}

	lower := strings.ToLower(s)
	if canonical, ok := skillAliases[lower]; ok {
		return canonical
	}

	if s == lower && !strings.Contains(s, " ") {
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return s
}
