// Package options reads and writes typed option records inside a
// configuration document.
//
// Every option type implements Options and describes where it lives through
// a Descriptor: a singleton section path, a collection path, and the
// discriminator key/value pair that marks its records inside collections.
//
// Singleton sections are merged on save: scalar and object fields are
// overwritten, array fields are appended to, and keys the value does not
// carry are left alone. Collection records are upserted by discriminator
// value. LoadAll searches the whole document, at any depth.
//
// Decoding is lenient: keys that the target type does not define are
// ignored. Strict turns unknown keys into errors.
//
// Types are made available by name through a Registry, which also maps
// deprecated type names onto their replacements.
package options
