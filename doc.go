// Package auth is the authentication and authorization core of the learning
// platform: password policy and hashing, paired JWT issuance, account
// lifecycle, and ownership resolution over the course hierarchy.
//
// Authentication flow:
//   - Auther orchestrates register, login, refresh, current-account
//     resolution, and logout against an AccountStore. Login failures are
//     indistinguishable between unknown email and wrong password; inactive
//     accounts fail every path regardless of credentials.
//   - TokenService mints access/refresh pairs. Access tokens carry email and
//     role; refresh tokens carry only the subject and type discriminator.
//     Both tokens rotate together on every refresh.
//   - RevocationSet makes Invalidate effective. The default no-op set keeps
//     logout stateless; MemoryRevocationSet tracks jti values with TTLs for
//     single-process deployments.
//
// Authorization:
//   - AccessResolver walks the course/module/lesson chain to the owning
//     instructor. Mutations require ownership or the admin role; reads are
//     not gated. A broken chain surfaces as not-found before any ownership
//     decision, so absence stays distinguishable from denial.
//
// Lifecycle and audit:
//   - UserStateMachine centralizes the active/inactive transition graph and
//     publishes status changes through an ActivitySink. Sinks run best-effort
//     so audit forwarding never blocks authentication.
package auth
