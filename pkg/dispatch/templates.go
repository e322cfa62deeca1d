package dispatch

import "github.com/Abraxas-365/nccerp/pkg/notifx"

const (
	TemplateANOCamp   = "ano_camp"
	TemplateCadetCamp = "cadet_camp"
	TemplateSelected  = "selected"
	TemplateReserve   = "reserve"
	TemplateInstitute = "institute"
)

// LongDate is the layout used for reporting dates in messages
const LongDate = "Monday, 2 January 2006"

// CampData feeds the camp announcement templates
type CampData struct {
	Rank        string
	Name        string
	Camp        string
	Description string
	Venue       string
	Date        string
	Time        string
	Sender      string
	PortalURL   string
}

// OutcomeData feeds the selection outcome templates
type OutcomeData struct {
	Rank    string
	Name    string
	Camp    string
	College string
	Date    string
}

const anoCamp = `
🪖 *NCC CAMP NOTIFICATION* 🪖

Dear {{.Rank}} {{.Name}},

You have received a new camp notification. Kindly log in to your account and nominate the cadets:

📅 *Camp:* {{.Camp}}
{{- if .Description}}
📝 *Description:* {{.Description}}
{{- end}}
📍 *Venue:* {{.Venue}}
🗓️ *Reporting Date:* {{.Date}}
⏰ *Reporting Time:* {{.Time}}

👤 *Sent by:* {{.Sender}}

Please check your NCC ERP portal for complete details and vacancy information.
{{- if .PortalURL}}

🔗 Portal: {{.PortalURL}}
{{- end}}

Best Regards,
NCC ERP System
`

const cadetCamp = `
🪖 *NCC CAMP NOTIFICATION* 🪖

Dear {{.Rank}} {{.Name}},

Your college has been allotted vacancy of *{{.Camp}}*

The reporting time and date is:
📅 *Date:* {{.Date}}
⏰ *Time:* {{.Time}}

Kindly contact your college ANO for further details.

Best Regards,
NCC ERP System
`

const selected = `
🎉 *CONGRATULATIONS!* 🎉

Dear {{.Rank}} {{.Name}},

*EXCELLENT NEWS!* You have been *SELECTED* for the next level of NCC Camp selection! 🏆

📋 *Selection Details:*
🏕️ Camp: {{.Camp}}
🏫 College: {{.College}}
🎖️ Status: *SELECTED FOR NEXT LEVEL*

🎯 *Next Steps:*
• Prepare for higher level selection
• Maintain your fitness and discipline
• Await further instructions from your unit

Keep up the excellent work! 🇮🇳

*National Cadet Corps*
*Selection Committee*
`

const reserve = `
📋 *NCC Camp Selection Update* 📋

Dear {{.Rank}} {{.Name}},

You have been placed in the *RESERVE LIST* for the NCC Camp selection.

📋 *Selection Details:*
🏕️ Camp: {{.Camp}}
🏫 College: {{.College}}
🎖️ Status: *RESERVE CANDIDATE*

🎯 *What this means:*
• You are on the official reserve list
• You may be called if selected candidates are unavailable
• Keep yourself prepared and ready

Best regards,

*National Cadet Corps*
*Selection Committee*
`

const institute = `
🎉 *CONGRATULATIONS!*

Dear {{.Rank}} {{.Name}},

You have been *SELECTED for INSTITUTE LEVEL* participation! 🏆

📋 *Selection Details:*
🏕️ Camp: {{.Camp}}
🏫 From: {{.College}}
🎯 Level: *INSTITUTE LEVEL*
📅 Selection Date: {{.Date}}

📞 *Next Steps:*
- Await further instructions from your commanding officer
- Prepare for institute level training and activities
- Maintain your fitness and discipline standards

*National Cadet Corps*
*Institute Level Selection*
`

// NewTemplates returns a registry holding every message template
func NewTemplates() *notifx.TemplateRegistry {
	r := notifx.NewTemplateRegistry(nil)
	r.MustRegister(TemplateANOCamp, anoCamp)
	r.MustRegister(TemplateCadetCamp, cadetCamp)
	r.MustRegister(TemplateSelected, selected)
	r.MustRegister(TemplateReserve, reserve)
	r.MustRegister(TemplateInstitute, institute)
	return r
}
