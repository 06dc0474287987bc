// Package vecino implements the server side of a residential building
// portal: session materialization, route gating, and visitor
// preregistration workflows.
//
// Session handling:
//   - SessionMaterializer turns the cookie pair a browser sends into a
//     verified Session and Identity. Cookies are only a hint; every
//     request that carries them is confirmed against the identity
//     service, and any failure collapses to an anonymous request rather
//     than an error page.
//   - RouteGuard decides per request whether to pass through, redirect
//     to login, or redirect to the unauthorized page. Decisions are pure
//     functions of path and identity so they can be tested without a
//     running server.
//
// Client identity lifecycle:
//   - IdentityStore holds the identity snapshot consumers subscribe to.
//     IdentityReconciler applies provider events in sequence order so a
//     stale in-flight refresh can never resurrect a signed-out session.
//
// Visitor workflows:
//   - Residents preregister visitors and receive a 6 digit gate code,
//     stored only as a bcrypt hash. Staff check visitors in against the
//     code; CanTransitionVisit centralizes the status graph.
package vecino
