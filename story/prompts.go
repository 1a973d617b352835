package story

import (
	"fmt"
	"strings"
)

// Hashtags maps each catalog story type to the hashtag that must lead the
// generated description.
var Hashtags = map[string]string{
	"Scary":               "#scary",
	"Mystery":             "#mystery",
	"Bedtime":             "#bedtime",
	"Interesting History": "#history",
	"Urban Legends":       "#urbanlegends",
	"Motivational":        "#motivation",
	"Fun Facts":           "#funfacts",
	"Long Form Jokes":     "#joke",
	"Life Pro Tips":       "#lifeprotips",
	"Philosophy":          "#philosophy",
	"Love":                "#love",
}

var storyTypeGuidelines = map[string]string{
	"philosophy": `1. Central philosophical question: Present a fundamental philosophical inquiry or dilemma.
2. Characters: Introduce one or more characters who explore or embody different perspectives on the central question.
3. Setting: Establish a context that enhances the philosophical exploration.
4. Dialogue or inner monologue: Use conversation or introspection to explore the philosophical concepts.
5. Analogies or thought experiments: Incorporate illustrative examples or hypothetical scenarios to clarify complex ideas.
6. Logical progression: Develop the philosophical argument or exploration in a clear, step-by-step manner.
7. Open-ended conclusion: End with a thought-provoking statement or question that encourages further reflection.

Ensure the story or dialogue is accessible to a general audience while maintaining philosophical depth and rigor.`,
	"life pro tips": `Guidelines for creating the life pro tip:
1. Practicality: Ensure the tip is applicable to everyday situations within the chosen category.
2. Clarity: Present the tip in clear, concise language.
3. Uniqueness: Provide a tip that is not commonly known or offers a new perspective in the chosen category.
4. Actionable advice: Give specific steps or methods to implement the tip.
5. Impact: Focus on a tip that can make a significant difference in people's lives.
6. Explanation: Provide a detailed explanation of why the tip works and how it can be beneficial.
7. Examples: Include one or two examples of how the tip can be applied in real-life situations.`,
	"fun facts": `Guidelines for creating the fun fact:
1. Topic: Choose an interesting subject from areas such as science, history, culture, nature, or technology.
2. Surprise factor: Focus on a fact that is likely to surprise or amaze the reader.
3. Relevance: Select a fact that has some connection to everyday life or current events.
4. Clarity: Present the fact in clear, concise language that's easy to understand.
5. Depth: Provide a detailed explanation or additional context for the fact.
6. Engagement: Frame the fact in a way that sparks curiosity and encourages further exploration.
7. Accuracy: Ensure the fact is true and verifiable.`,
	"long form jokes": `Guidelines for creating the long form joke:
1. Narrative structure: Compose a lengthy joke with an engaging narrative build-up followed by a clever punchline.
2. Detailed storyline: Craft a well-developed storyline that leads up to the punchline.
3. Character development: Introduce one or more interesting characters and develop them throughout the joke.
4. Setting: Establish a clear and vivid setting that enhances the humor of the situation.
5. Pacing: Maintain a good rhythm, building tension and anticipation as you approach the punchline.
6. Misdirection: Use clever misdirection to set up unexpected twists or surprises.
7. Punchline: Deliver a strong, unexpected, and hilarious punchline that ties everything together.
8. Appropriate content: Ensure the joke is suitable for a general audience.`,
	"bedtime": `1. Main character: Introduce a relatable protagonist that children can easily connect with.
2. Setting: Establish a cozy, magical, or dreamy setting appropriate for a bedtime story.
3. Gentle plot: Present a mild adventure or problem that is resolved peacefully.
4. Emotional journey: Develop the character's emotions in a way that promotes comfort and security.
5. Story structure: Follow a clear beginning, middle, and end, with a calming resolution.
6. Language and style: Use simple, soothing language suitable for children.
7. Moral or lesson: Include a subtle, positive message or gentle life lesson.

Ensure the story is calming and conducive to sleep, avoiding any scary elements.`,
	"urban legends": `1. Setting: Establish a specific region or culture where the legend takes place.
2. Origins: Describe the supposed origins of the legend, including any historical context.
3. Main narrative: Tell the core story of the urban legend in vivid detail.
4. Variations: Mention any notable variations of the legend, if applicable.
5. Real events: If relevant, reference any real events that might have inspired the legend.
6. Atmospheric elements: Include details that create a sense of unease or fear.
7. Cultural impact: Briefly discuss how the legend has affected local culture or beliefs.
8. Ambiguity: Maintain some level of uncertainty about the truth of the legend.`,
}

func guidelinesFor(storyType string) string {
	key := strings.ToLower(storyType)
	guidelines, ok := storyTypeGuidelines[key]
	if !ok {
		guidelines = fmt.Sprintf(`1. Main character: Introduce a compelling protagonist with clear goals or desires.
2. Setting: Establish a vivid and appropriate setting for the story.
3. Conflict: Present a central conflict or challenge for the main character to overcome.
4. Emotional journey: Develop the character's emotions throughout the story.
5. Story structure: Follow a clear beginning (setup), middle (confrontation), and end (resolution).
6. Language and style: Adapt the language to suit the %[1]s.

Ensure the story captures the reader's attention and imagination while staying true to the conventions of %[1]s.`, storyType)
	}
	if key == "interesting history" {
		guidelines += `

Important: Ensure the story is based on real historical events and figures.
Provide accurate historical details while maintaining an engaging narrative.`
	}
	return guidelines
}

const storySystemPrompt = `You are a versatile content creator skilled in storytelling, and creating content for various audiences. Your content is known for:
1. Engaging and informative writing across various genres
2. Clear and concise communication of complex ideas
3. Adapting language and style to suit different content types and audiences
4. Creating compelling narratives or informative lists as required
5. Crafting catchy, relevant titles that capture the essence of the content

You excel at following specific guidelines while maintaining creativity and relevance in your content creation.

IMPORTANT: Write EVERYTHING (Title, Description, and Content) in the specified language. The Tone of the writing should match the specified tone.`

func storyPrompt(storyType string, charMin, charMax int, language, tone string) string {
	return fmt.Sprintf(`Create content based on the following guidelines:

1. Title: Create an engaging and relevant title. Ensure it is unique and avoids repetition.
2. Description: Write a 100-150 character description that provides an overview of the content. Include 2-3 relevant hashtags, followed by #facelessvideos.app as the last hashtag.
3. Content: Generate the main content according to the specific guidelines below.

%s

Important: Please ensure the total character count is between %d and %d characters.

Format your response as follows:
Title: [Your generated title]

Description: [Your generated description]

[Your generated content]

Output Language: %s
Tone: %s
`, guidelinesFor(storyType), charMin, charMax, language, tone)
}

const characterSystemPrompt = `You are an expert at analyzing stories and creating detailed, vivid character descriptions, focusing on overall appearance. Your skills include:
1. Extracting subtle character details from narrative context
2. Creating consistent and believable descriptions of characters
3. Focusing on permanent features and distinguishing attributes
4. Adapting descriptions to fit the story's genre and tone
5. Avoiding any mention of clothing or attire in character descriptions`

func characterPrompt(storyText string) string {
	return fmt.Sprintf(`Based on the following story, create detailed descriptions for each character, including their name, ethnicity, gender, age, facial features, body type, hair style, and accessories. Focus on permanent or long-term attributes.

Story:
%s

Output format:
[
    {
        "name": "Character Name",
        "ethnicity": "Character's Ethnicity",
        "gender": "Character's Gender",
        "age": "Character's Age",
        "facial_features": "Description of Character's facial features",
        "body_type": "Description of Character's body type",
        "hair_style": "Description of Character's hair style",
        "accessories": "Description of Character's accessories"
    },
    ...
]

Guidelines:
- Include the character's name as it appears in the story.
- For accessories, include only non-clothing items such as jewelry, glasses and watches.
- Focus on permanent or long-term features, not on changeable expressions or temporary states.
- Do not include any descriptions of clothing or attire.

Please provide only the JSON array, without any additional text.`, storyText)
}

const storyboardSystemPrompt = `You are a highly skilled storyboard artist specializing in visualizing various types of content. You excel at:
1. Creating vivid, engaging scene descriptions that translate different types of content into compelling visuals
2. Developing visual metaphors and analogies to represent complex ideas or concepts
3. Faithfully representing the original text using exact quotes for subtitles
4. Ensuring the visual narrative accurately captures key points and their development
5. Maintaining logical consistency between scenes while providing a variety of visual representations`

func storyboardPrompt(kind Kind, title, storyText string, characterNames []string, maxScenes int, language, tone, timestamp string) string {
	namesLine := ""
	if len(characterNames) > 0 {
		namesLine = "Character full Names: " + strings.Join(characterNames, ", ")
	}
	return fmt.Sprintf(`Based on the following %[1]s, create a detailed storyboard with up to %[2]d scenes in the specified language: %[3]s.

Title: %[4]s
%[5]s

First, create an opening scene:
1. Scene Number: 1
2. Description: %[6]s
3. Subtitles: An engaging question that captures the essence of the %[1]s and piques the viewer's interest.

Then, for each subsequent scene, provide the following details:
1. Scene Number
2. Description: A vivid description (60-70 words) focusing on key visual elements. %[7]s
3. Subtitles: Use EXACT quotes from the original text.
4. Transition: Specify the type of transition to the current scene.

Guidelines:
- Subtitles MUST contain only exact text from the original text, without any additions, omissions, or modifications.
- Include every sentence from the original text in the subtitles, maintaining the correct order across all scenes.
- Each subtitle must be unique; do not repeat content in multiple scenes.
- EVERY SCENE MUST HAVE NON-EMPTY SUBTITLES. If you run out of story text, do not create additional scenes.
- The total number of scenes should not exceed %[2]d.
- When using a character's name in possessive form (e.g., "Character's") in the description,
  surround it with double curly braces {{ }} if it's not referring to the character's appearance.
  For example: "{{Giovanni's}} workshop".
%[8]s

Use only the following options for transition details:
- Transition types: zoom-in, zoom-out

Guidelines for using zoom-in, and zoom-out transitions:
- Zoom-in: Use to focus on important details, build tension, or show a character's point of view.
- Zoom-out: Use to reveal context, end a scene, or show isolation.

Important rules:
0. EVERYTHING (Scene Description and Subtitles) must be written in %[3]s. Tone: %[9]s.
1. Do not use zoom-in transitions when the current scene's shot size is close-up or extreme close-up.
2. For transitions, use ONLY the following types:
    - zoom-in
    - zoom-out
3. DO NOT use any other transition types, including fade, dissolve, or cut.

Output the result as a JSON object with the following structure:
{
    "project_info": {
        "title": "%[4]s",
        "user": "AI Generated",
        "timestamp": "%[10]s"
    },
    "storyboards": [
        {
            "scene_number": "Scene Number",
            "description": "Scene Description",
            "subtitles": "Subtitles or Dialogue",
            "image": null,
            "audio": null,
            "transition_type": "Transition Type"
        },
        ...
    ]
}

Here's the story:

%[11]s`, kind.String(), maxScenes, language, title, namesLine, kind.openingInstruction(), kind.sceneGuideline(), kind.extraGuidelines(), tone, timestamp, storyText)
}
