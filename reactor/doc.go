// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness reactor used by the relay loop:
// an epoll(7) implementation on Linux and an unsupported-platform stub.
package reactor
