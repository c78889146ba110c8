// Package comm provides L0 protocol support.
package comm

// L0 protocol is communicated between the HIL bench firmware and the host
// controller over a single byte stream (e.g. serial port).
//
// Frames carry no delimiter, length prefix or checksum. The first byte of a
// host frame is the opcode and the total length of the frame is fixed per
// opcode (see FrameLen). Replies are shaped per opcode as well, so the host
// must know the reply shape of each command a priori.
//
// Besides replies, the device pushes unsolicited RecvCAN frames whenever a
// message arrives on one of the buses, and Error frames naming the opcode of a
// command it refused.
//
// Producer: host controller (commands), L0 firmware (replies, relays, errors)
// Consumer: L0 firmware (commands), host controller (replies, relays, errors)
