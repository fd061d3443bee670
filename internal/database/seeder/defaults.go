package seeder

import "resume-ats/internal/keywords"

func Defaults(tables *keywords.Tables) []Seeder {
	return []Seeder{
		KeywordSetsSeeder{Tables: tables},
	}
}
