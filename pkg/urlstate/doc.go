// Package urlstate binds typed values to route variables and the page key of
// a hashroute.Navigator.
//
//	nav := hashroute.NewNavigator(loc)
//
//	tab := urlstate.Use(nav, "tab", "log")
//	tab.Set("results") // fragment becomes "<page>/tab=results"
//
//	limit := urlstate.Use(nav, "limit", 20).Debounce(300 * time.Millisecond)
//	limit.Set(50)      // written after 300ms of quiet
//
//	page := urlstate.UsePage(nav, "home")
//	page.Set("workflows")
//
// Values are read from the fragment on every Get; nothing is cached, so a
// hand-edited URL is picked up immediately.
package urlstate
