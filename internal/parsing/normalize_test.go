package parsing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeSkillName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Golang to go", "Golang", "go"},
		{"GOLANG to go", "GOLANG", "go"},
		{"go lang to go", "go lang", "go"},
		{"JS to javascript", "JS", "javascript"},
		{"TypeScript lowercased", "TypeScript", "typescript"},
		{"K8s to kubernetes", "k8s", "kubernetes"},
		{"Kubernetes is not a plural", "Kubernetes", "kubernetes"},
		{"react.js to react", "React.js", "react"},
		{"nodejs to node.js", "nodejs", "node.js"},
		{"node.js keeps the dot", "Node.js", "node.js"},
		{"C++ keeps symbols", "C++", "c++"},
		{"C# keeps symbols", "C#", "c#"},
		{"hyphen becomes space", "Problem-Solving", "problem solving"},
		{"plural folded", "Communications", "communication"},
		{"ies plural folded", "Technologies", "technology"},
		{"ics kept", "Analytics", "analytics"},
		{"ss kept", "Business", "business"},
		{"punctuation stripped", "Leadership!", "leadership"},
		{"trailing dot stripped", "Python.", "python"},
		{"whitespace collapsed", "  machine   learning ", "machine learning"},
		{"alias after plural fold", "Team Players", "teamwork"},
		{"Empty string", "", ""},
		{"Whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeSkillName(tt.input)
			assert.Equal(t, tt.expected, result, "should normalize skill name correctly")
		})
	}
}

func TestSameSkill(t *testing.T) {
	assert.True(t, SameSkill("Golang", "golang"))
	assert.True(t, SameSkill("JS", "JavaScript"))
	assert.True(t, SameSkill("Skills", "skill"))
	assert.False(t, SameSkill("Java", "JavaScript"))
	assert.False(t, SameSkill("", ""))
}

func TestDedupSkills(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{"nil input", nil, []string{}},
		{"keeps first spelling", []string{"Python", "python", "SQL"}, []string{"Python", "SQL"}},
		{"alias duplicates", []string{"Go", "Golang", "JS", "JavaScript"}, []string{"Go", "JS"}},
		{"drops empty", []string{"", "  ", "Excel"}, []string{"Excel"}},
		{"trims", []string{"  Docker "}, []string{"Docker"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupSkills(tt.input))
		})
	}
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "Javascript", TitleCase("javascript"))
	assert.Equal(t, "Machine Learning", TitleCase("machine learning"))
	assert.Equal(t, "Communication", TitleCase("COMMUNICATION"))
}
