// Package controller implements the synchronisation layer between the UI's
// device store and the MQTT fleet.
//
// Inbound traffic from the single {root}/# subscription is routed, strictly
// decoded, and debounced before it touches canonical state. Outbound intent
// is throttled per device with a leading send and a trailing latest-value
// send, so bursts from interactive controls neither flood the radio link
// nor lose their final value.
package controller
