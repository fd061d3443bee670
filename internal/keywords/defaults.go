package keywords

// Built-in tables used when no keyword source is configured. Symbol keywords
// such as "c++" and "ui/ux" can never match normalized text; they still count
// toward the category size, as they always have.
var (
	DefaultCategories = []KeywordSet{
		{Name: "engineering", Keywords: []string{
			"python", "java", "react", "flask", "sql", "machine learning", "javascript", "typescript",
			"c++", "ruby", "swift", "go", "kotlin", "data structures", "algorithms", "problem solving",
			"software development", "c language", "android", "web design", "ui/ux",
		}},
		{Name: "management", Keywords: []string{"leadership", "teamwork", "communication", "project management"}},
		{Name: "data science", Keywords: []string{"python", "pandas", "numpy", "matplotlib"}},
	}

	DefaultRoles = []KeywordSet{
		{Name: "software_developer", Keywords: []string{
			"python", "java", "react", "javascript", "typescript", "c++", "ruby", "swift", "go", "kotlin",
		}},
		{Name: "data_scientist", Keywords: []string{
			"python", "pandas", "numpy", "matplotlib", "seaborn", "tensorflow", "keras", "machine learning", "deep learning",
		}},
		{Name: "project_manager", Keywords: []string{"leadership", "project management", "agile", "scrum", "jira", "trello"}},
	}
)

func Defaults() *Tables {
	return MustNew(DefaultCategories, DefaultRoles)
}
