package normalize

// Participant sheet columns.
const (
	HeaderUserName        = "User Name"
	HeaderUserEmail       = "User Email"
	HeaderProfileURL      = "Google Cloud Skills Boost Profile URL"
	HeaderBadgesCompleted = "# of Skill Badges Completed"
	HeaderArcadeCompleted = "# of Arcade Games Completed"
	HeaderBadgeNames      = "Names of Completed Skill Badges"
	HeaderAccessCode      = "Access Code Redemption Status"
	HeaderAllCompleted    = "All Skill Badges & Games Completed"
)

// Volunteer sheet columns.
const (
	HeaderName             = "Name"
	HeaderCoursesCompleted = "Number of Courses Completed"
	HeaderCredentialsUsed  = "Number of Credentials Used"
	HeaderStudentsHelped   = "Number of Students Helped"
	HeaderAccountOwner     = "Account Owner's Name"
	HeaderStudentsURL      = "Students Helped Skill Boost Url"
)

// ParticipantHeaders lists the participant columns in sheet order.
var ParticipantHeaders = []string{
	HeaderUserName, HeaderUserEmail, HeaderProfileURL, HeaderBadgesCompleted,
	HeaderArcadeCompleted, HeaderBadgeNames, HeaderAccessCode, HeaderAllCompleted,
}

// VolunteerHeaders lists the volunteer columns in sheet order.
var VolunteerHeaders = []string{
	HeaderName, HeaderCoursesCompleted, HeaderCredentialsUsed,
	HeaderStudentsHelped, HeaderAccountOwner, HeaderStudentsURL,
}
