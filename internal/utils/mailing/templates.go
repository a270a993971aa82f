package mailing

import "fmt"

func FSSAIApprovedBody(business, fssaiNumber string) string {
	return fmt.Sprintf(
		"<p>Dear %s,</p><p>Your FSSAI registration has been approved. Registered FSSAI number: <b>%s</b>.</p>",
		business, fssaiNumber,
	)
}

func IncidentAssignedBody(username, product, priority string) string {
	return fmt.Sprintf(
		"<p>Hello %s,</p><p>You have been assigned the incident for <b>%s</b> (priority %s).</p>",
		username, product, priority,
	)
}
