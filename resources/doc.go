// Package resources contains functions to prepare paths for directvga
// resources, such as the saved window geometry and screen captures.
//
// The JoinPath() function returns the correct path to the resource
// directory/file specified in the arguments. It handles the creation of
// directories as required but does not otherwise touch or create files.
//
// JoinPath() handles the inclusion of the correct base path. The base path
// depends on how the binary was built.
//
// For builds with the "release" build tag, the path returned by JoinPath() is
// rooted in the user's configuration directory. On modern Linux systems the
// full path would be something like:
//
//	/home/user/.config/directvga/
//
// For non-"release" builds, the correct path is rooted in the current working
// directory:
//
//	.directvga
//
// The package does this because during development it is more convenient to
// have the config directory close to hand.
package resources
