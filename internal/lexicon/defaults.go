package lexicon

import "regexp"

// Default returns the built-in lexicon covering the campus assistant's
// English and Tagalog pattern sets. The tables are rebuilt on every call so
// callers can never share mutable state through them; build it once at
// startup and pass the pointer around.
func Default() *Lexicon {
	lex, err := New(defaultIntents(), Tables{
		Typos:          defaultTypos(),
		Fillers:        defaultFillers(),
		EntityPatterns: defaultEntityPatterns(),
		Positive:       defaultPositive(),
		Negative:       defaultNegative(),
		OrgAliases:     defaultOrgAliases(),
		Positions:      defaultPositions(),
		Committees:     defaultCommittees(),
	})
	if err != nil {
		// The built-in tables are validated by tests; a failure here is a
		// programming error, not a runtime condition.
		panic("lexicon: built-in tables invalid: " + err.Error())
	}
	return lex
}

func defaultIntents() []IntentDefinition {
	return []IntentDefinition{
		{
			Name:   IntentGreeting,
			Weight: 0.9,
			Patterns: []string{
				"hello", "hi", "hey", "good morning", "good afternoon",
				"good evening", "kumusta", "musta", "kamusta",
			},
		},
		{
			Name:   IntentFarewell,
			Weight: 0.9,
			Patterns: []string{
				"bye", "goodbye", "see you", "see you later", "paalam", "ingat",
			},
		},
		{
			Name:   IntentThanks,
			Weight: 0.9,
			Patterns: []string{
				"thank you", "thanks", "thanks a lot", "salamat", "maraming salamat",
			},
		},
		{
			Name:   IntentViewSchedule,
			Weight: 1.0,
			Patterns: []string{
				"schedule", "view schedule", "my schedule", "schedule ko",
				"class schedule", "show my schedule", "anong schedule ko",
				"view my class schedule", "check schedule",
			},
		},
		{
			Name:   IntentUploadSchedule,
			Weight: 0.9,
			Patterns: []string{
				"upload schedule", "add schedule", "submit schedule",
				"upload my class schedule", "upload sched",
			},
		},
		{
			Name:   IntentRoomSearch,
			Weight: 1.0,
			Patterns: []string{
				"where is room", "find room", "locate room", "saan ang room",
				"hanap ng room", "which building is room",
			},
		},
		{
			Name:   IntentRoomStats,
			Weight: 1.0,
			Patterns: []string{
				"room stats", "how many rooms", "vacant rooms",
				"available rooms", "occupied rooms", "ilang room ang bakante",
			},
		},
		{
			Name:   IntentAnnouncements,
			Weight: 1.0,
			Patterns: []string{
				"announcements", "any announcements", "latest announcements",
				"may announcement ba", "anong balita", "news",
			},
		},
		{
			Name:   IntentOrgInfo,
			Weight: 0.9,
			Patterns: []string{
				"organizations", "student organizations", "list of organizations",
				"about the organization", "anong mga org", "tell me about the orgs",
			},
		},
		{
			Name:   IntentOrgOfficer,
			Weight: 1.0,
			Patterns: []string{
				"who is the president", "who is the officer", "org officer",
				"sino ang presidente", "officer of the organization",
			},
		},
		{
			Name:   IntentOrgOfficerList,
			Weight: 1.0,
			Patterns: []string{
				"list of officers", "all officers", "officers of the organization",
				"sino ang mga officer", "show me the officers",
			},
		},
		{
			Name:   IntentOrgCommittee,
			Weight: 1.0,
			Patterns: []string{
				"committee members", "who are in the committee",
				"committee of the organization", "sino ang nasa committee",
			},
		},
		{
			Name:   IntentEvents,
			Weight: 1.0,
			Patterns: []string{
				"events", "upcoming events", "school events", "anong events",
				"may event ba", "activities this week",
			},
		},
		{
			Name:   IntentHelp,
			Weight: 0.9,
			Patterns: []string{
				"help", "tulong", "how to use this", "paano gamitin",
				"i need help",
			},
		},
		{
			Name:   IntentCapabilities,
			Weight: 0.9,
			Patterns: []string{
				"what can you do", "ano ang kaya mong gawin", "capabilities",
				"what do you know", "what are you for",
			},
		},
	}
}

// defaultTypos maps the misspellings the portal's users actually type to
// their canonical forms. Applied token by token after filler removal.
func defaultTypos() map[string]string {
	return map[string]string{
		// schedule family
		"shcedule": "schedule",
		"scedule":  "schedule",
		"schedual": "schedule",
		"schdule":  "schedule",
		"skedyul":  "schedule",
		// announcements
		"anouncement":  "announcement",
		"annoucement":  "announcement",
		"anouncements": "announcements",
		"anounce":      "announce",
		// officers and orgs
		"offcer":      "officer",
		"oficer":      "officer",
		"offcers":     "officers",
		"presedent":   "president",
		"presidnt":    "president",
		"presdente":   "presidente",
		"comittee":    "committee",
		"commitee":    "committee",
		"organiztion": "organization",
		// question words, English and Tagalog shorthand
		"whre":  "where",
		"wher":  "where",
		"wat":   "what",
		"wht":   "what",
		"hw":    "how",
		"san":   "saan",
		"sno":   "sino",
		"cno":   "sino",
		"anu":   "ano",
		"kelan": "kailan",
		"kailn": "kailan",
		// misc
		"tnx":      "thanks",
		"thx":      "thanks",
		"slamat":   "salamat",
		"avalable": "available",
		"vacnt":    "vacant",
		"rom":      "room",
	}
}

// defaultFillers lists tokens that carry no intent signal and are stripped
// during normalization. Mostly Tagalog particles plus chat politeness.
func defaultFillers() map[string]struct{} {
	words := []string{
		"please", "pls", "plss", "po", "opo", "naman", "lang", "nga",
		"ba", "kasi", "talaga", "yung", "ung", "sana", "kindly", "din",
		"rin", "daw", "raw", "ayun",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func defaultEntityPatterns() map[EntityType]*regexp.Regexp {
	return map[EntityType]*regexp.Regexp{
		EntityTime: regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}\s*(?:am|pm)?\b|\b\d{1,2}\s*(?:am|pm)\b`),
		EntityDay: regexp.MustCompile(`(?i)\b(?:monday|tuesday|wednesday|thursday|friday|saturday|sunday|today|tomorrow|yesterday|` +
			`lunes|martes|miyerkules|huwebes|biyernes|sabado|linggo|bukas|ngayon|kahapon)\b`),
		EntityRoom:         regexp.MustCompile(`(?i)\broom\s*\d{1,4}[a-z]?\b|\brm\.?\s*\d{1,4}[a-z]?\b`),
		EntityOrganization: regexp.MustCompile(`(?i)\b(?:csc|jpia|jpcs|eces|hms|tec)\b`),
		EntitySubject: regexp.MustCompile(`(?i)\b(?:math|mathematics|english|filipino|science|physics|chemistry|biology|` +
			`history|programming|accounting|economics)\b`),
		EntityPosition: regexp.MustCompile(`(?i)\b(?:president|vice\s+president|secretary|treasurer|auditor|adviser|` +
			`pio|business\s+manager|presidente|kalihim)\b`),
	}
}

func defaultPositive() []string {
	return []string{
		"thank", "salamat", "great", "good", "nice", "awesome", "amazing",
		"helpful", "love", "galing", "astig", "perfect", "happy", "appreciated",
	}
}

func defaultNegative() []string {
	return []string{
		"bad", "hate", "angry", "annoying", "galit", "pangit", "panget",
		"worst", "terrible", "awful", "useless", "slow", "sucks", "badtrip",
		"inis", "ayoko",
	}
}

// defaultOrgAliases covers the campus organizations and the free-text ways
// students refer to them. Keys are lowercase; longer aliases are preferred
// over shorter ones when both appear in an utterance.
func defaultOrgAliases() map[string]Organization {
	csc := Organization{Code: "CSC", DisplayName: "Central Student Council"}
	jpia := Organization{Code: "JPIA", DisplayName: "Junior Philippine Institute of Accountants"}
	jpcs := Organization{Code: "JPCS", DisplayName: "Junior Philippine Computer Society"}
	eces := Organization{Code: "ECES", DisplayName: "Electronics Engineering Society"}
	hms := Organization{Code: "HMS", DisplayName: "Hospitality Management Society"}
	tec := Organization{Code: "TEC", DisplayName: "Teacher Education Circle"}

	return map[string]Organization{
		"csc":                      csc,
		"student council":          csc,
		"central student council":  csc,
		"jpia":                     jpia,
		"accountancy org":          jpia,
		"accounting society":       jpia,
		"jpcs":                     jpcs,
		"computer society":         jpcs,
		"it org":                   jpcs,
		"eces":                     eces,
		"electronics society":      eces,
		"hms":                      hms,
		"hospitality org":          hms,
		"hm society":               hms,
		"tec":                      tec,
		"teacher education circle": tec,
		"education org":            tec,
	}
}

// defaultPositions maps position keywords and their Tagalog or shorthand
// synonyms to canonical position IDs.
func defaultPositions() map[string]string {
	return map[string]string{
		"president":                  "president",
		"presidente":                 "president",
		"pres":                       "president",
		"vice president":             "vice-president",
		"vice pres":                  "vice-president",
		"vp":                         "vice-president",
		"secretary":                  "secretary",
		"kalihim":                    "secretary",
		"sec":                        "secretary",
		"treasurer":                  "treasurer",
		"ingat-yaman":                "treasurer",
		"ingat yaman":                "treasurer",
		"auditor":                    "auditor",
		"pio":                        "pio",
		"public information officer": "pio",
		"business manager":           "business-manager",
		"adviser":                    "adviser",
		"advisor":                    "adviser",
	}
}

func defaultCommittees() map[string]string {
	return map[string]string{
		"finance committee":    "finance",
		"finance":              "finance",
		"events committee":     "events",
		"programs committee":   "events",
		"events":               "events",
		"membership committee": "membership",
		"membership":           "membership",
		"publicity committee":  "publicity",
		"creatives":            "publicity",
		"pub committee":        "publicity",
		"sports committee":     "sports",
		"sports":               "sports",
	}
}
