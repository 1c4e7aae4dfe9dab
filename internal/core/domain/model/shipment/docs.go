// Package shipment contains the ReturnShipment aggregate: one reverse-logistics
// partner booking with its identifying keys, return-flow and activity flags,
// a weak reference to the Return it drives, and the append-only webhook event
// log whose per-shipment event-id uniqueness backs deduplication.
package shipment
