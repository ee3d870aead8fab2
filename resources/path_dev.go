//go:build !release

package resources

const configDir = ".directvga"

func resourcePath() (string, error) {
	return configDir, nil
}
