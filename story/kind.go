package story

import "strings"

// Kind is the closed set of storyboard strategies. Every story type maps
// onto one of these; unknown types take the general strategy.
type Kind int

const (
	KindGeneral Kind = iota
	KindLifeProTips
	KindPhilosophy
	KindFunFacts
)

// ParseKind matches the story-type string case-insensitively.
func ParseKind(storyType string) Kind {
	switch strings.ToLower(strings.TrimSpace(storyType)) {
	case "life pro tips":
		return KindLifeProTips
	case "philosophy":
		return KindPhilosophy
	case "fun facts":
		return KindFunFacts
	default:
		return KindGeneral
	}
}

func (k Kind) String() string {
	switch k {
	case KindLifeProTips:
		return "life pro tips"
	case KindPhilosophy:
		return "philosophy"
	case KindFunFacts:
		return "fun facts"
	default:
		return "general"
	}
}

// HasCast reports whether this kind of story carries a visual cast worth
// describing. Tip and fact formats skip character generation entirely.
func (k Kind) HasCast() bool {
	return k != KindLifeProTips && k != KindFunFacts
}

// sceneGuideline is the per-kind instruction for scene descriptions.
func (k Kind) sceneGuideline() string {
	switch k {
	case KindPhilosophy:
		return "Focus on visually representing abstract philosophical concepts through concrete imagery, metaphors, or thought experiments."
	case KindFunFacts:
		return "Focus on visually representing the information, statistics, or concepts mentioned in the fun fact."
	case KindLifeProTips:
		return "Focus on visually representing the implementation of the tip, its benefits, and potential scenarios where it can be applied."
	default:
		return "Focus on visually representing key moments and significant changes in the story."
	}
}

// openingInstruction describes scene 1 for this kind.
func (k Kind) openingInstruction() string {
	switch k {
	case KindPhilosophy:
		return "A vivid description (60-70 words) that sets up the central philosophical question or dilemma."
	case KindFunFacts:
		return "A vivid description (60-70 words) that sets up an engaging question related to the fun fact."
	case KindLifeProTips:
		return "A vivid description (60-70 words) that sets up a common problem or situation related to the life pro tip."
	default:
		return "A vivid description (60-70 words) that sets up an engaging question related to the overall theme of the story."
	}
}

// extraGuidelines carries the kind-specific storyboard additions.
func (k Kind) extraGuidelines() string {
	switch k {
	case KindPhilosophy:
		return `- Include scenes that show characters engaged in deep thought, dialogue, or experiencing realizations.
- Incorporate visual elements that symbolize the philosophical themes being explored.`
	case KindFunFacts:
		return `- Use visual metaphors or analogies to help explain complex ideas if necessary.
- Include scenes that show the real-world application or implications of the fun fact, if applicable.`
	case KindLifeProTips:
		return `- Use before-and-after style scenes to show the impact of applying the tip, if applicable.
- Include scenes that show both the process of implementing the tip and its positive outcomes.`
	default:
		return `- Describe characters' clothing in detail, ensuring consistency within scenes.
- Cover the entire story without omitting any significant parts.
- Use the provided character full names in the descriptions.`
	}
}
