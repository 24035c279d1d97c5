package core

// Version of the configuration builder, printed in the configuration stamp.
const Version = "1.0.0"
