package lexicon

// Category names of the default sentiment lexicon
const (
	StrongNegative   = "strong_negative"
	ModerateNegative = "moderate_negative"
	MildNegative     = "mild_negative"
	MildPositive     = "mild_positive"
	ModeratePositive = "moderate_positive"
	StrongPositive   = "strong_positive"
)

// Theme tags of the default theme table
const (
	ThemeWork           = "work"
	ThemeFamily         = "family"
	ThemeHealth         = "health"
	ThemeRelationships  = "relationships"
	ThemeStress         = "stress"
	ThemeGratitude      = "gratitude"
	ThemeCreativity     = "creativity"
	ThemePersonalGrowth = "personal_growth"
	ThemeNature         = "nature"
	ThemeGoals          = "goals"
)

// Default returns a fresh copy of the built-in tables.
//
// Sentiment categories are matched strong negative first, then from strong
// positive down to moderate negative. A token takes the weight of the first
// category holding a word it equals, contains or is part of, so "unhappy"
// scores as "happy" unless tiered matching is turned on.
func Default() *Tables {
	return &Tables{
		Sentiment: Lexicon{
			Categories: []Category{
				{
					Name:   StrongNegative,
					Weight: -0.3,
					Words: []string{
						"devastated", "heartbroken", "hopeless", "desperate", "suicidal", "worthless",
						"useless", "failure", "disaster", "nightmare", "agony", "torment", "anguish",
						"despair", "rage", "fury", "disgusted", "repulsed", "disgust", "revolt",
					},
				},
				{
					Name:   StrongPositive,
					Weight: 0.3,
					Words: []string{
						"amazing", "incredible", "fantastic", "wonderful", "excellent", "outstanding",
						"brilliant", "spectacular", "magnificent", "extraordinary", "thrilled", "ecstatic",
						"overjoyed", "elated", "euphoric", "blissful", "delighted", "grateful", "blessed",
						"thankful", "birthday", "celebrate", "celebration", "special", "meaningful",
						"loved ones", "family", "friends",
					},
				},
				{
					Name:   ModeratePositive,
					Weight: 0.2,
					Words: []string{
						"good", "great", "nice", "happy", "glad", "pleased", "content", "satisfied",
						"peaceful", "calm", "hopeful", "optimistic", "positive", "cheerful", "joyful",
						"excited", "energized", "accomplished", "proud", "confident", "love", "like",
						"enjoy", "fun", "success", "beautiful", "perfect",
					},
				},
				{
					Name:   MildPositive,
					Weight: 0.1,
					Words: []string{
						"okay", "fine", "alright", "decent", "fair", "pleasant", "comfortable", "relaxed",
						"stable", "better", "improving", "improvement", "progress",
					},
				},
				{
					Name:   MildNegative,
					Weight: -0.1,
					Words: []string{
						"tired", "busy", "concerned", "worried", "uncertain", "confused", "disappointed",
						"bothered", "annoyed", "uncomfortable", "difficult", "challeng", "hard", "tough",
						"embarrass",
					},
				},
				{
					Name:   ModerateNegative,
					Weight: -0.2,
					Words: []string{
						"sad", "upset", "frustrated", "angry", "stressed", "anxious", "overwhelmed",
						"discouraged", "lonely", "hurt", "bad", "awful", "terrible", "horrible",
						"unhappy", "depress", "miserable", "hate", "dislike", "pain", "suffer", "struggle",
					},
				},
			},
			Intensifiers: Intensifiers{
				High: []string{
					"very", "extremely", "incredibly", "absolutely", "completely", "totally", "really",
					"so", "quite", "truly", "deeply", "immensely", "utterly", "thoroughly",
				},
				Low: []string{
					"somewhat", "slightly", "a bit", "kind of", "sort of", "rather", "fairly", "pretty",
					"moderately",
				},
			},
			Negations: []string{
				"not", "no", "never", "none", "nobody", "nothing", "neither", "nowhere", "hardly",
				"scarcely", "barely", "n't", "don't", "won't", "can't", "shouldn't", "wouldn't",
				"couldn't", "isn't", "aren't", "wasn't", "weren't",
			},
			Phrases: Phrases{
				Positive: []string{
					"best day", "so happy", "really excited", "absolutely love", "incredibly grateful",
					"perfect day", "amazing time", "wonderful experience", "great day", "special day",
					"loved ones", "meaningful day", "celebrate with",
				},
				Negative: []string{
					"worst day", "so sad", "really upset", "absolutely hate", "completely overwhelmed",
					"terrible day", "awful time", "i wish", "horrible experience", "why am i",
					"what is wrong", "even if", "feel like dying", "want to die", "can't take it",
					"killing me", "wrong with me",
				},
			},
		},
		Themes: []Theme{
			{ThemeWork, []string{"work", "job", "office", "meeting", "project", "boss", "colleague", "deadline", "presentation", "career"}},
			{ThemeFamily, []string{"family", "mom", "dad", "sister", "brother", "parents", "children", "kids", "relatives"}},
			{ThemeHealth, []string{"health", "exercise", "sleep", "tired", "energy", "workout", "fitness", "medical", "doctor"}},
			{ThemeRelationships, []string{"friend", "relationship", "partner", "love", "dating", "marriage", "social", "connection", "boyfriend", "girlfriend"}},
			{ThemeStress, []string{"stress", "anxiety", "worried", "overwhelmed", "pressure", "tension", "nervous", "panic"}},
			{ThemeGratitude, []string{"grateful", "thankful", "appreciate", "blessed", "fortunate", "lucky", "abundance"}},
			{ThemeCreativity, []string{"creative", "art", "music", "writing", "ideas", "inspiration", "imagination", "design"}},
			{ThemePersonalGrowth, []string{"growth", "learn", "reflection", "insight", "understand", "wisdom", "development"}},
			{ThemeNature, []string{"nature", "outdoor", "walk", "trees", "sky", "weather", "garden", "animals"}},
			{ThemeGoals, []string{"goal", "achievement", "success", "progress", "plan", "future", "ambition", "dream"}},
		},
		Prompts: Prompts{
			ByTheme: map[string][]string{
				ThemeWork: {
					"What brought you energy at work today?",
					"How did you find moments of calm during your workday?",
					"What's one thing you learned about yourself through work today?",
					"How did you handle challenges at work today?",
				},
				ThemeStress: {
					"What helped you feel more grounded today?",
					"How did you show kindness to yourself during stressful moments?",
					"What would you tell a friend facing similar challenges?",
					"What small victory can you celebrate today?",
				},
				ThemeGratitude: {
					"What small moment brought you joy today?",
					"Who or what are you most grateful for right now?",
					"How did gratitude show up in your day?",
					"What made you smile today?",
				},
				ThemeCreativity: {
					"What inspired you today?",
					"How did you express your creativity, even in small ways?",
					"What new ideas are bubbling up for you?",
					"Where did you find beauty today?",
				},
				ThemeRelationships: {
					"How did you connect with others today?",
					"What did you learn about someone important to you?",
					"How did you show care for the people in your life?",
					"What conversation meant the most to you today?",
				},
				ThemePersonalGrowth: {
					"What did you discover about yourself today?",
					"How did you step outside your comfort zone?",
					"What are you becoming more aware of lately?",
					"What pattern are you noticing in your thoughts or behavior?",
				},
			},
			Default: []string{
				"How are you feeling right now, and what's behind that feeling?",
				"What's been on your mind lately that you haven't fully explored?",
				"What would you like to let go of today?",
				"What are you most curious about right now?",
				"What deserves your attention today?",
			},
		},
	}
}
