// Package hub owns the UDP sockets shared by every speaker session.
//
// A speaker only talks to fixed client ports, so one process can hold at
// most one notification socket and one result socket. The hub binds both,
// reads from them in dedicated loops and routes each datagram to the
// Receiver registered for the datagram's source IP.
//
// # Delivery
//
// Received datagrams are copied and queued for a small worker pool, so a
// slow receiver never stalls the read loops. When the queue is full the
// datagram is dropped with a warning. Datagrams from hosts without a
// receiver are dropped.
//
// # Acknowledgements
//
// Every datagram that arrives on the notification port is acked to the
// sender's port 3334, whether or not a receiver matched. A speaker that
// stops receiving acks stops sending notifications.
//
// # Sending
//
// Send writes from a separate ephemeral socket. A failed write re-creates
// that socket and retries once before returning a *TransportError.
//
// # Usage Example
//
//	h, err := hub.Default()
//	if err != nil {
//	    log.Fatal(err) // port 3333 or 7778 already in use
//	}
//	defer h.Close()
//
//	h.Register(session)
//	err = h.Send("192.168.1.20", pkt)
package hub
