// OregonBridge receives, decodes and interprets Oregon Scientific v1 and
// v2.1 weather sensor transmissions. A 433 MHz OOK receiver's data pin is
// watched through the Linux GPIO character device; the time between signal
// edges drives one pulse classifier per registered protocol family, and
// checksum-validated readings are printed and optionally republished to an
// MQTT broker.
package main
