package telegram

// UI texts in English
const (
	helpText = "🌍 I convert times mentioned in chat to every member's timezone.\n\n" +
		"Just write a time (\"let's meet at 18:00\", \"call me at 5 pm\") and I will reply " +
		"with the local time for everyone in this chat.\n\n" +
		"Commands:\n" +
		"/tb_settz — set or change your city\n" +
		"/tb_mytz — show your saved city and timezone\n" +
		"/tb_members — list this chat's members and their cities\n" +
		"/tb_remove — remove a member from this chat's list\n" +
		"/tb_help — this message"

	notSetText = "You have no city set yet. Use /tb_settz to pick one."

	askCityFmt = "%s, what city are you in? Reply to this message with a city name " +
		"(or your current local time, like 15:30)."
	cityNotFoundFmt = "Could not find \"%s\". Try a bigger city nearby, or send your current local time."
	citySetFmt      = "%s, saved: %s %s (%s)."
	saveFailedText  = "Could not save your city, please try again."

	membersTitle   = "🧾 Members of this chat:"
	noMembersText  = "Nobody in this chat has set a city yet. Use /tb_settz to be the first."
	listFailedText = "Could not load the member list, please try again."

	askRemoveText    = "Send the number of the member to remove."
	badNumberText    = "That is not a number from the list, removal cancelled."
	removeFailedText = "Could not remove that member, please try again."
	removedFmt       = "Removed %s %s from this chat's list."
)
