// Package onedrive is a thin client for the OneDrive endpoints of Microsoft Graph.
//
// Every operation reads the caller's bearer token from the request context
// (see package credential) through a Factory, which yields a Descriptor holding
// the base URL and the Authorization header. When no token is installed the
// operation returns the unauthenticated Result without touching the network.
//
// Operations never return a Go error. They return a Result, a tagged value that
// is one of:
//   - Ok: the remote call succeeded; carries a status line and the JSON payload
//   - ConflictSkipped: create-file found the name taken under the "error" policy
//   - RemoteError: Graph answered with a non-success status
//   - ClientError: a local precondition or transport failure
//
// Nothing is cached between calls; every read goes to Graph.
//
// Example usage:
//
//	client := onedrive.NewClient(onedrive.Options{})
//	ctx, release := credential.WithToken(ctx, token)
//	defer release()
//
//	res := client.ListRoot(ctx)
//	if res.IsError() {
//	    return res.Render()
//	}
//
// Create-file resolves name conflicts locally: it lists the target folder once,
// then writes under the desired name, skips, or writes under a name with a random
// suffix depending on ConflictPolicy. Folder creation leaves conflict handling to
// Graph via @microsoft.graph.conflictBehavior.
package onedrive
