// Package android provides device support over adb: UI hierarchy dumps via
// uiautomator, foreground detection via dumpsys, and taps via input.
// Importing the package registers it as the platform provider.
package android
