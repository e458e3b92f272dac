// Package admin wraps the backend's user and document management calls
// behind resource clients that own a tagged list state.
//
// Every successful mutation triggers a fresh list — there is no optimistic
// merging and no partial local patching. A failed mutation records a banner
// error and leaves the loaded list as it was. Deleting the built-in admin
// account or your own account is refused before the network is touched.
package admin
