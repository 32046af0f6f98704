package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simp-lee/posadmin/internal/domain"
	"github.com/simp-lee/posadmin/internal/module/image"
	"github.com/simp-lee/posadmin/internal/resource"
	"github.com/simp-lee/posadmin/internal/transport"
)

func imageRepo(c *cli, tc *transport.Client) *image.Repository {
	return image.NewRepository(image.NewAPI(tc), c.logger)
}

func imagesCmd(c *cli) *cobra.Command {
	render := plainCSV(image.ImagesCSV)
	cmd := newResourceCmd(c, resourceDef[domain.Image]{
		use:   "images",
		short: "Manage the image gallery",
		repo:  func(tc *transport.Client) *resource.Repository[domain.Image] { return imageRepo(c, tc).Images },
		csv:   render,
	})
	cmd.AddCommand(uploadCmd(c, render), downloadCmd(c))
	return cmd
}

func uploadCmd(c *cli, render csvFunc[domain.Image]) *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			files := make([]transport.File, 0, len(args))
			for _, path := range args {
				f, err := transport.FileFromPath(path)
				if err != nil {
					return err
				}
				files = append(files, f)
			}
			tc, err := c.client()
			if err != nil {
				return err
			}
			repo := imageRepo(c, tc)
			if len(files) == 1 {
				img, err := found(repo.Upload(cmd.Context(), files[0], description), "images", "uploaded file")
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), img)
			}
			return printResult(cmd, c, "images", repo.UploadMany(cmd.Context(), files, description), render)
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "description stored with every file")
	return cmd
}

// downloadCmd picks images from the gallery and saves their files. With one
// code --output names the file; with several it names the directory.
func downloadCmd(c *cli) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "download <code>...",
		Short: "Save the files behind one or more images",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tc, err := c.client()
			if err != nil {
				return err
			}
			repo := imageRepo(c, tc)
			gallery := repo.Images.All(cmd.Context())
			if gallery.Failed() {
				return gallery.Err
			}
			multi := len(args) > 1
			sel := image.NewSelector(gallery.Value, multi)
			for _, code := range args {
				if !sel.Select(code) {
					return domain.NewAppError(domain.CodeNotFound, fmt.Sprintf("images %s not found", code), nil)
				}
			}

			for _, img := range sel.Selected() {
				res := repo.Download(cmd.Context(), img)
				if res.Failed() {
					return res.Err
				}
				path := output
				switch {
				case multi:
					dir := output
					if dir == "" {
						dir = "."
					}
					path = filepath.Join(dir, filepath.Base(img.FileName))
				case path == "":
					path = filepath.Base(img.FileName)
				}
				if err := os.WriteFile(path, res.Value, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%d bytes)\n", path, len(res.Value))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "destination file, or directory when several codes are given")
	return cmd
}
