package eligibility

// skillSynonymGroups lists phrases that name the same skill.
var skillSynonymGroups = [][]string{
	{"javascript", "js", "ecmascript"},
	{"typescript", "ts"},
	{"react", "reactjs", "react.js"},
	{"node", "nodejs", "node.js"},
	{"vue", "vuejs", "vue.js"},
	{"sql", "mysql", "postgresql", "database"},
	{"aws", "amazon web services", "cloud"},
	{"docker", "containerization", "containers"},
	{"kubernetes", "k8s"},
	{"python", "py"},
	{"golang", "go"},
	{"c#", "csharp", ".net", "dotnet"},
}

// skillCategories groups loosely related phrases. Two skills that fall in
// the same category share some relevance even when nothing else matches.
var skillCategories = map[string][]string{
	"programming": {"programming", "coding", "development", "software"},
	"frontend":    {"frontend", "ui", "ux", "web", "html", "css"},
	"backend":     {"backend", "server", "api", "database"},
	"medical":     {"medical", "healthcare", "clinical", "patient"},
	"nursing":     {"nursing", "patient care", "healthcare", "medical"},
}

// fieldSynonyms maps a qualification field keyword to words that signal it
// inside a free-text qualification name.
var fieldSynonyms = map[string][]string{
	"nursing":     {"nursing", "nurse", "rn", "bsn"},
	"medicine":    {"medicine", "medical", "mbbs", "md"},
	"engineering": {"engineering", "engineer", "beng", "meng"},
	"pharmacy":    {"pharmacy", "pharmacist", "pharmd"},
	"computing":   {"computing", "computer science", "informatics", "it"},
	"business":    {"business", "management", "mba", "commerce"},
}

// levelSynonyms maps a qualification level keyword to words that signal it.
var levelSynonyms = map[string][]string{
	"bachelor":    {"bachelor", "bachelors", "bsc", "ba", "bs", "beng", "bsn"},
	"master":      {"master", "masters", "msc", "ma", "ms", "meng", "mba"},
	"doctorate":   {"doctorate", "phd", "dphil", "doctor"},
	"diploma":     {"diploma", "dip"},
	"certificate": {"certificate", "cert"},
}

// degreeAbbreviations expands degree abbreviations found as whole tokens of
// a qualification name. Dots are stripped first, so "B.Sc." reads as "bsc".
var degreeAbbreviations = map[string]string{
	"bsc":       "bachelor of science",
	"bs":        "bachelor of science",
	"ba":        "bachelor of arts",
	"bsn":       "bachelor of science in nursing",
	"beng":      "bachelor of engineering",
	"bcom":      "bachelor of commerce",
	"msc":       "master of science",
	"ms":        "master of science",
	"ma":        "master of arts",
	"msn":       "master of science in nursing",
	"meng":      "master of engineering",
	"mba":       "master of business administration",
	"phd":       "doctor of philosophy",
	"dphil":     "doctor of philosophy",
	"bachelors": "bachelor",
	"masters":   "master",
}

// connectiveWords are dropped when comparing qualification names.
var connectiveWords = map[string]struct{}{
	"of":  {},
	"in":  {},
	"and": {},
	"the": {},
	"&":   {},
}
