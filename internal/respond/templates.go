// Package respond turns a classified intent into the assistant's final
// reply: static intents draw from per-intent template pools, dynamic
// intents query the campus directory, and every reply carries a short list
// of follow-up suggestions.
package respond

import "github.com/kabalen/tanong/internal/lexicon"

// defaultTemplates is the static reply pool per intent. One entry is
// picked uniformly at random per turn; the word "organization(s)" in the
// chosen template is replaced by the mentioned organization's code when
// one was extracted.
func defaultTemplates() map[lexicon.Intent][]string {
	return map[lexicon.Intent][]string{
		lexicon.IntentGreeting: {
			"Hello! How can I help you today?",
			"Hi! Ask me about schedules, rooms, announcements, or the student organizations.",
			"Kumusta! What can I do for you?",
		},
		lexicon.IntentFarewell: {
			"Goodbye! Come back anytime.",
			"See you around campus!",
			"Ingat! I'll be here if you need anything.",
		},
		lexicon.IntentThanks: {
			"You're welcome!",
			"Happy to help!",
			"Walang anuman!",
		},
		lexicon.IntentViewSchedule: {
			"You can view your class schedule under Schedules in the menu.",
			"Your schedule is on the Schedules page — tap the menu to open it.",
		},
		lexicon.IntentUploadSchedule: {
			"To upload a schedule, open Schedules and choose Upload. Photos and PDFs both work.",
			"Head to the Schedules page and press Upload to submit your class schedule.",
		},
		lexicon.IntentRoomSearch: {
			"Room locations are listed on the Rooms page, including building and floor.",
			"Check the Rooms page — search by room number to see where it is.",
		},
		lexicon.IntentAnnouncements: {
			"The latest announcements are on the home page, newest first.",
			"Check the Announcements feed — that's where departments and organizations post updates.",
		},
		lexicon.IntentOrgInfo: {
			"The student organizations are listed on the Organizations page, with their officers and activities.",
			"You can browse every organization on the Organizations page. Ask me about a specific one, like its president.",
		},
		lexicon.IntentEvents: {
			"Upcoming events are posted on the Events page and announced on the home feed.",
			"Check the Events page for this week's activities.",
		},
		lexicon.IntentHelp: {
			"I can answer questions about schedules, rooms, announcements, events, and the student organizations. Try asking \"who is the president of CSC\".",
			"Ask me things like \"vacant rooms\", \"upcoming events\", or \"officers of JPIA\".",
		},
		lexicon.IntentCapabilities: {
			"I understand questions about class schedules, campus rooms, announcements, events, and organization officers — in English or Tagalog, typos included.",
			"I can look up organization officers, room statistics, schedules, events, and announcements for you.",
		},
		lexicon.IntentUnknown: {
			"Sorry, I didn't catch that. You can ask about schedules, rooms, announcements, events, or organizations.",
			"I'm not sure what you mean. Try something like \"my schedule\", \"vacant rooms\", or \"who is the president of CSC\".",
			"Pasensya na, hindi ko naintindihan. Ask me about schedules, rooms, or the student organizations.",
		},
	}
}

// defaultSuggestions is the follow-up chip list per intent, at most four
// entries each. Intents without their own list fall back to UNKNOWN's.
func defaultSuggestions() map[lexicon.Intent][]string {
	return map[lexicon.Intent][]string{
		lexicon.IntentGreeting: {
			"View my schedule", "Any announcements?", "Upcoming events", "Who is the president of CSC?",
		},
		lexicon.IntentFarewell: {
			"View my schedule", "Any announcements?",
		},
		lexicon.IntentThanks: {
			"Any announcements?", "Upcoming events",
		},
		lexicon.IntentViewSchedule: {
			"Upload schedule", "Vacant rooms", "Any announcements?",
		},
		lexicon.IntentUploadSchedule: {
			"View my schedule", "Any announcements?",
		},
		lexicon.IntentRoomSearch: {
			"Vacant rooms", "View my schedule",
		},
		lexicon.IntentRoomStats: {
			"Where is room 204?", "View my schedule",
		},
		lexicon.IntentAnnouncements: {
			"Upcoming events", "View my schedule",
		},
		lexicon.IntentOrgInfo: {
			"Who is the president of CSC?", "Officers of JPIA", "Committees of CSC",
		},
		lexicon.IntentOrgOfficer: {
			"All officers of CSC", "Committees of CSC", "About the organizations",
		},
		lexicon.IntentOrgOfficerList: {
			"Who is the president of CSC?", "Committees of CSC",
		},
		lexicon.IntentOrgCommittee: {
			"All officers of CSC", "About the organizations",
		},
		lexicon.IntentEvents: {
			"Any announcements?", "View my schedule",
		},
		lexicon.IntentHelp: {
			"View my schedule", "Vacant rooms", "Any announcements?", "Who is the president of CSC?",
		},
		lexicon.IntentCapabilities: {
			"View my schedule", "Vacant rooms", "Officers of JPIA",
		},
		lexicon.IntentUnknown: {
			"Help", "View my schedule", "Any announcements?", "What can you do?",
		},
	}
}
