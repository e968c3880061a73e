// Package protocol owns the receiver wire contract.
//
// Ownership boundary:
// - fixed-size client datagrams (discovery, hello, key input)
// - inbound message classification
// - display-update token scanning
package protocol
