// ngkeys extracts translation keys from Angular templates and keeps the
// translation files of a project in sync with them.
//
// Keys are found in two places:
//   - the value of the translate-marker attribute, literal or bound
//     (both branches of a conditional count)
//   - the input of the translate pipe
//
// Usage:
//
//	# Write new keys into src/assets/i18n/<lang>.json
//	ngkeys extract
//
//	# Report keys missing from the translation files
//	ngkeys find
//
//	# Extract again whenever a template changes
//	ngkeys watch --config ngkeys.yaml
package main

func main() {
	Execute()
}
