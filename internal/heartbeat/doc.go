// Package heartbeat implements the status protocol between the workers and
// the observer.
//
// Every worker owns one [Endpoint]: an outbound channel carrying its
// [Sample] and an inbound channel carrying the continue token. On each tick
// a worker sends one sample and then blocks until the token arrives. The
// [Observer] reads one sample from every endpoint in worker order, renders
// the round, and only then sends the token to every worker. The round is a
// barrier: no worker produces its next sample before the observer has read
// the current one from all of them.
//
// Because every worker is parked on its token while a round is rendered, the
// observer may read the dataset at that point without racing the workers.
package heartbeat
