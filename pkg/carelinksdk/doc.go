// Package carelinksdk is a Go client for the carelink invite-code service.
//
// Unauthenticated calls (health probes) hang off Client. Everything else is
// made through a Session bound to a platform access token:
//
//	client := carelinksdk.NewClient("http://localhost:8080")
//	session := client.WithToken(accessToken)
//
//	code, err := session.GenerateInviteCode(ctx)
//	if err != nil {
//		var apiErr *carelinksdk.APIError
//		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
//			// re-authenticate with the platform
//		}
//	}
//
//	link, err := caregiverSession.RedeemInviteCode(ctx, code.Code)
package carelinksdk
