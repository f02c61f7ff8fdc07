/*
Package builder turns a config.Model into a network.Network.

Construction is a two-pass process:

 1. Node creation: every `input` block becomes a dummy node with one output
    socket, and every `node` block becomes a function node whose sockets
    follow the signature of the registered function it names.

 2. Linking: every argument expression is resolved. A reference
    (`input.x`, `node.n` or `node.n.<output>`) links the named output socket;
    any other expression must be a static literal and becomes a constant
    node converted to the socket type. `null` leaves the input unconnected and
    is only accepted where the function declares a default. Each `output`
    block then becomes a dummy node with one input socket.

The finished network is checked for cycles before it is returned.
*/
package builder
