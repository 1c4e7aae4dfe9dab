// Package services provides domain services that sit between the partner feed
// and the return aggregates. It implements logic that doesn't naturally belong
// to a single aggregate root.
//
// The package includes:
//   - MapPartnerStatus: translation of partner status strings into the internal vocabulary
//   - DeriveEventID: stable webhook event identity (explicit id or content fingerprint)
//   - SystemTransitionPolicy: the default transition-legality oracle
package services
