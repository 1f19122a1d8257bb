package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mindgames/backend/internal/models"
)

const maxTips = 3

type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Errors, "; "))
}

// ParseTips decodes the model's JSON reply, tolerating markdown fences.
// Extra tips beyond three are dropped.
func ParseTips(responseBody string) ([]models.CoachTip, error) {
	var reply struct {
		Tips []models.CoachTip `json:"tips"`
	}
	if err := json.Unmarshal([]byte(stripCodeFences(responseBody)), &reply); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if len(reply.Tips) > maxTips {
		reply.Tips = reply.Tips[:maxTips]
	}
	if err := validateTips(reply.Tips); err != nil {
		return nil, err
	}
	return reply.Tips, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```json"))
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}

func validAxis(a string) bool {
	for _, x := range axes {
		if x == a {
			return true
		}
	}
	return false
}

func validateTips(tips []models.CoachTip) error {
	if len(tips) == 0 {
		return &ValidationError{Errors: []string{"no tips in response"}}
	}

	var errs []string
	for i, t := range tips {
		n := i + 1
		if !validAxis(t.Axis) {
			errs = append(errs, fmt.Sprintf("tip %d: unknown axis %q", n, t.Axis))
		}
		if strings.TrimSpace(t.Title) == "" {
			errs = append(errs, fmt.Sprintf("tip %d: empty title", n))
		}
		if l := len(t.Detail); l < 10 || l > 400 {
			errs = append(errs, fmt.Sprintf("tip %d: detail length %d outside range [10, 400]", n, l))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}

// repetitive reports whether any two tips share more than 60% of their
// detail keywords.
func repetitive(tips []models.CoachTip) bool {
	sets := make([]map[string]bool, len(tips))
	for i, t := range tips {
		sets[i] = tokenize(t.Detail)
	}
	for i := 0; i < len(sets); i++ {
		for j := i + 1; j < len(sets); j++ {
			if jaccardSimilarity(sets[i], sets[j]) > 0.60 {
				return true
			}
		}
	}
	return false
}

func tokenize(s string) map[string]bool {
	tokens := make(map[string]bool)
	for _, word := range strings.Fields(strings.ToLower(s)) {
		// skip articles and prepositions
		if len(word) > 3 {
			tokens[word] = true
		}
	}
	return tokens
}

func jaccardSimilarity(a, b map[string]bool) float64 {
	intersection := 0
	for k := range a {
		if b[k] {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
