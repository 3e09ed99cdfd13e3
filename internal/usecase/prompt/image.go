package prompt

import (
	"fmt"
	"strings"

	"github.com/futig/remedy-companion/internal/entity"
)

const ImageAspectRatio = "3:4"

type visualSubject struct {
	container   string
	description string
}

func subjectFor(prepType entity.PrepType) visualSubject {
	switch prepType {
	case entity.PrepTypeSciroppo:
		return visualSubject{
			container:   "a vintage clear glass medicine bottle (unlabeled) or a silver spoon",
			description: "thick, amber-colored syrup",
		}
	case entity.PrepTypeImpacco:
		return visualSubject{
			container:   "a small ceramic mortar or a wooden bowl",
			description: "textured herbal paste or cream",
		}
	case entity.PrepTypeDecotto:
		return visualSubject{
			container:   "a rustic ceramic mug",
			description: "dark, rich, concentrated herbal liquid",
		}
	default:
		return visualSubject{
			container:   "a clear double-walled glass cup",
			description: "translucent herbal tea with steam rising",
		}
	}
}

// BuildImagePrompt describes the finished remedy visually. Only the prep type
// and ingredient names are used; recipe text never reaches the image model.
func BuildImagePrompt(recipe *entity.Recipe) string {
	subject := subjectFor(recipe.PrepType)

	var b strings.Builder
	b.WriteString("Professional botanical still life photography. Macro shot, 8k resolution.\n\n")

	b.WriteString("SUBJECT:\n")
	fmt.Fprintf(&b, "Center frame: %s filled with %s.\n\n", subject.container, subject.description)

	b.WriteString("SURROUNDINGS:\n")
	b.WriteString("The container is sitting on an old textured wooden table.\n")
	fmt.Fprintf(&b, "Artfully arranged around the container are fresh raw ingredients: %s.\n",
		strings.Join(recipe.IngredientNames(), ", "))
	b.WriteString("Soft, natural window light (Golden Hour) illuminating the steam or texture.\n\n")

	b.WriteString("STYLE:\n")
	b.WriteString("- Editorial nature photography.\n")
	b.WriteString("- Cinematic depth of field (bokeh background).\n")
	b.WriteString("- Warm, organic, healing atmosphere.\n\n")

	b.WriteString("NEGATIVE PROMPT (STRICT):\n")
	for _, neg := range []string{
		"NO TEXT.",
		"NO LABELS on bottles or jars.",
		"NO WRITING.",
		"NO WATERMARKS.",
		"NO plastic.",
		"NO cartoon or illustration style.",
	} {
		fmt.Fprintf(&b, "- %s\n", neg)
	}

	return b.String()
}

// BuildImageRequest wraps the image prompt with the fixed aspect ratio
func BuildImageRequest(recipe *entity.Recipe) *entity.ImageRequest {
	return &entity.ImageRequest{
		Prompt:      BuildImagePrompt(recipe),
		AspectRatio: ImageAspectRatio,
	}
}
