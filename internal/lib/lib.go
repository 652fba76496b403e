// Package lib acts as a library for modules that do not fit
// strictly into other layers.
//
// It contains small string helpers, background job processing
// (using Redis/Asynq) and the Resend email client used to notify
// the studio about new inquiries.
package lib
